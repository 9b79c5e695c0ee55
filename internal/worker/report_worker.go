// Package worker turns queued process requests into published reports.
package worker

import (
	"context"
	"errors"
	"fmt"

	"budgetsheet/internal/amqp"
	"budgetsheet/internal/core"
	"budgetsheet/internal/log"
	"budgetsheet/internal/services"
)

type Processor interface {
	Process(ctx context.Context, req services.ProcessRequest) *services.Report
}

type ReportPublisher interface {
	PublishReport(ctx context.Context, msg *amqp.ReportMessage) error
}

// ReportWorker processes one sheet per request and forwards the result.
type ReportWorker struct {
	processor Processor
	publisher ReportPublisher
	logger    *log.Logger
}

func NewReportWorker(processor Processor, publisher ReportPublisher, logger *log.Logger) *ReportWorker {
	if logger == nil {
		logger = log.Default()
	}
	return &ReportWorker{
		processor: processor,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleProcessRequest processes the requested sheet and publishes the
// report. Failed reports are logged and not forwarded; only a publish
// failure is returned, so the request is retried.
func (w *ReportWorker) HandleProcessRequest(ctx context.Context, msg *amqp.ProcessRequestMessage) error {
	report := w.processor.Process(ctx, services.ProcessRequest{
		Ref:         msg.Ref,
		Month:       msg.Month,
		SheetNumber: msg.SheetNumber,
		Mode:        core.ProjectHierarchical,
	})

	fields := log.NewFields().
		WithSheet(msg.Ref, msg.Month, msg.SheetNumber, report.ActualSheetIndex)
	fields[log.FieldFileName] = msg.FileName
	fields[log.FieldDirectorate] = msg.DirectorateName

	if report.Failed() {
		w.logger.WarnContext(ctx, "Dropping failed report", fields.WithError(errors.New(report.Data.Error), log.ErrorTypeSource).ToSlice()...)
		return nil
	}

	if err := w.publisher.PublishReport(ctx, amqp.NewReportMessage(msg, report.Data)); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	w.logger.InfoContext(ctx, "Report forwarded", fields.ToSlice()...)
	return nil
}
