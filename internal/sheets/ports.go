package sheets

import (
	"context"
	"errors"

	"budgetsheet/internal/catalog"
)

var ErrSheetNotFound = errors.New("sheet not found")

// SheetRequest identifies one sheet of a source workbook. Ref is
// source-specific: a spreadsheet id, a directory or a file path.
type SheetRequest struct {
	Ref         string
	Month       int
	SheetNumber int
	SheetIndex  int // zero-based workbook index, see catalog.SheetIndex
}

// Ports for outbound adapters.
type (
	// ValueSource reads the raw type values of a sheet, keyed by type id.
	// Cells that are empty on the sheet are absent from the map.
	ValueSource interface {
		ReadLeafValues(ctx context.Context, req SheetRequest, layout catalog.Layout) (map[string]string, error)
	}
)
