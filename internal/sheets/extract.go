package sheets

import (
	"strings"

	"budgetsheet/internal/catalog"
)

// ExtractLeafValues picks the type values out of a sheet grid. grid[0] is
// the first row of the sheet, so a cell at layout row r sits at
// grid[HeaderRows-1+r]. Cells outside the grid or blank after trimming are
// left out.
func ExtractLeafValues(grid [][]string, layout catalog.Layout) map[string]string {
	values := make(map[string]string)
	for _, cell := range layout.Cells {
		row := layout.HeaderRows - 1 + cell.Row
		col := cell.Col - 1
		if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
			continue
		}
		v := strings.TrimSpace(grid[row][col])
		if v == "" {
			continue
		}
		values[cell.TypeID] = v
	}
	return values
}

// Bounds returns the number of grid rows and columns needed to hold every
// layout cell.
func Bounds(layout catalog.Layout) (rows, cols int) {
	for _, cell := range layout.Cells {
		if r := layout.HeaderRows + cell.Row; r > rows {
			rows = r
		}
		if cell.Col > cols {
			cols = cell.Col
		}
	}
	return rows, cols
}
