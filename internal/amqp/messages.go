package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budgetsheet/internal/core"
)

// ProcessRequestMessage asks a worker to process one sheet of a workbook.
type ProcessRequestMessage struct {
	Ref             string    `json:"ref"`
	FileName        string    `json:"file_name"`
	Month           int       `json:"month"`
	Year            int       `json:"year"`
	SheetNumber     int       `json:"sheet_number"`
	DirectorateName string    `json:"directorate_name"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewProcessRequestMessage(ref, fileName string, year, month, sheetNumber int, directorate string) *ProcessRequestMessage {
	return &ProcessRequestMessage{
		Ref:             ref,
		FileName:        fileName,
		Month:           month,
		Year:            year,
		SheetNumber:     sheetNumber,
		DirectorateName: directorate,
		Timestamp:       time.Now(),
	}
}

// Validate reports the fields a worker cannot do without. Ref may be empty:
// the csv source then reads the sheets directory itself and the sheets
// source falls back to the configured spreadsheet.
func (m *ProcessRequestMessage) Validate() error {
	var errs []error
	if m.Month < 1 || m.Month > 12 {
		errs = append(errs, fmt.Errorf("month %d out of range 1-12", m.Month))
	}
	if m.SheetNumber != 1 && m.SheetNumber != 2 {
		errs = append(errs, fmt.Errorf("sheet number %d must be 1 or 2", m.SheetNumber))
	}
	return errors.Join(errs...)
}

func (m *ProcessRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ProcessRequestMessageFromJSON(data []byte) (*ProcessRequestMessage, error) {
	var msg ProcessRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportMessage carries a processed sheet to the downstream importer.
type ReportMessage struct {
	FileName             string       `json:"file_name"`
	Month                int          `json:"month"`
	Year                 int          `json:"year"`
	DirectorateName      string       `json:"directorate_name"`
	SheetNumberProcessed int          `json:"sheet_number_processed"`
	ProcessedData        *core.Result `json:"processed_data"`
	Timestamp            time.Time    `json:"timestamp"`
}

// NewReportMessage answers req with data.
func NewReportMessage(req *ProcessRequestMessage, data *core.Result) *ReportMessage {
	return &ReportMessage{
		FileName:             req.FileName,
		Month:                req.Month,
		Year:                 req.Year,
		DirectorateName:      req.DirectorateName,
		SheetNumberProcessed: req.SheetNumber,
		ProcessedData:        data,
		Timestamp:            time.Now(),
	}
}

func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var msg ReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
