package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetsheet/internal/catalog"
	"budgetsheet/internal/core"
	"budgetsheet/internal/log"
	"budgetsheet/internal/sheets"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrUnsupportedSheet is reported for the accounts sheet, which carries a
// debit/credit grid rather than the budget hierarchy.
var ErrUnsupportedSheet = errors.New("sheet 2 (accounts) is not supported")

var (
	errLoadCatalog = errors.New("load catalog")
	errReadSheet   = errors.New("read sheet")
)

// ProcessRequest selects one sheet of a workbook.
type ProcessRequest struct {
	Ref         string
	Month       int
	SheetNumber int
	Mode        core.ProjectionMode
}

// Report is the outcome of processing one sheet. Data always holds a
// result; on failure it carries the error message and empty lists.
type Report struct {
	Status           string       `json:"status"`
	SheetNumber      int          `json:"sheet_number"`
	Month            int          `json:"month"`
	ActualSheetIndex int          `json:"actual_sheet_index"`
	Data             *core.Result `json:"data"`
}

func (r *Report) Failed() bool {
	return r.Status != StatusSuccess
}

type BudgetProcessorConfig struct {
	// Concurrency bounds the months processed at once by ProcessMonths (default: 4)
	Concurrency int
}

func DefaultBudgetProcessorConfig() BudgetProcessorConfig {
	return BudgetProcessorConfig{Concurrency: 4}
}

// BudgetProcessor turns sheets into aggregated budget trees.
type BudgetProcessor struct {
	catalogs CatalogProvider
	source   sheets.ValueSource
	config   BudgetProcessorConfig
	logger   *log.Logger
}

func NewBudgetProcessor(catalogs CatalogProvider, source sheets.ValueSource, config BudgetProcessorConfig, logger *log.Logger) *BudgetProcessor {
	if config.Concurrency < 1 {
		config.Concurrency = DefaultBudgetProcessorConfig().Concurrency
	}
	if logger == nil {
		logger = log.Default()
	}
	return &BudgetProcessor{
		catalogs: catalogs,
		source:   source,
		config:   config,
		logger:   logger.WithComponent(log.ComponentProcessor),
	}
}

// Process reads one sheet, loads its values into a fresh tree and projects
// the non-zero nodes. It never returns nil; failures are reported in the
// Report.
func (p *BudgetProcessor) Process(ctx context.Context, req ProcessRequest) *Report {
	start := time.Now()
	report := &Report{SheetNumber: req.SheetNumber, Month: req.Month}

	result, index, err := p.process(ctx, req)
	report.ActualSheetIndex = index
	fields := log.NewFields().
		WithOperation(log.OpProcess).
		WithSheet(req.Ref, req.Month, req.SheetNumber, index).
		WithDuration(time.Since(start).Milliseconds())
	if err != nil {
		report.Status = StatusError
		report.Data = core.ErrorResult(err)
		p.logger.ErrorContext(ctx, "Sheet processing failed", fields.WithError(err, errorType(err)).ToSlice()...)
		return report
	}

	report.Status = StatusSuccess
	report.Data = result
	fields.WithCounts(len(result.Chapters), len(result.Sections), len(result.Items), len(result.Types))
	p.logger.InfoContext(ctx, "Sheet processed", fields.ToSlice()...)
	return report
}

func (p *BudgetProcessor) process(ctx context.Context, req ProcessRequest) (*core.Result, int, error) {
	index, err := catalog.SheetIndex(req.Month, req.SheetNumber)
	if err != nil {
		return nil, 0, err
	}
	if req.SheetNumber != 1 {
		return nil, index, ErrUnsupportedSheet
	}

	cat, err := p.catalogs.Catalog(ctx)
	if err != nil {
		return nil, index, fmt.Errorf("%w: %w", errLoadCatalog, err)
	}

	values, err := p.source.ReadLeafValues(ctx, sheets.SheetRequest{
		Ref:         req.Ref,
		Month:       req.Month,
		SheetNumber: req.SheetNumber,
		SheetIndex:  index,
	}, cat.Layout)
	if err != nil {
		return nil, index, fmt.Errorf("%w %d: %w", errReadSheet, index, err)
	}

	tree := cat.Build()
	if err := tree.UpdateValues(core.KindType, values); err != nil {
		return nil, index, err
	}
	return tree.Project(req.Mode), index, nil
}

// ProcessMonths processes the same sheet for each month concurrently and
// returns the reports in the order of months. Per-month failures stay in
// their reports; only cancellation of ctx yields an error.
func (p *BudgetProcessor) ProcessMonths(ctx context.Context, req ProcessRequest, months []int) ([]*Report, error) {
	reports := make([]*Report, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Concurrency)
	for i, month := range months {
		i, month := i, month
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := req
			r.Month = month
			reports[i] = p.Process(gctx, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}
	p.logger.InfoContext(ctx, "Batch processed", log.FieldOperation, log.OpBatch, "months", len(months), "failed", failed)
	return reports, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, catalog.ErrInvalidMonth), errors.Is(err, catalog.ErrInvalidSheetNumber), errors.Is(err, ErrUnsupportedSheet):
		return log.ErrorTypeValidation
	case errors.Is(err, errLoadCatalog):
		return log.ErrorTypeCatalog
	case errors.Is(err, errReadSheet):
		return log.ErrorTypeSource
	default:
		return log.ErrorTypeInternal
	}
}
