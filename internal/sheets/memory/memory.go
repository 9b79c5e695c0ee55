// Package memory is an in-process value source for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetsheet/internal/catalog"
	ports "budgetsheet/internal/sheets"
)

type sheetKey struct {
	ref   string
	index int
}

// Store keeps sheet grids in memory, keyed by workbook ref and sheet index.
type Store struct {
	mu    sync.Mutex
	grids map[sheetKey][][]string
	reads int
}

var _ ports.ValueSource = (*Store)(nil)

func New() *Store {
	return &Store{grids: make(map[sheetKey][][]string)}
}

// PutGrid stores a copy of grid as the sheet at index of ref.
func (s *Store) PutGrid(ref string, index int, grid [][]string) {
	cp := make([][]string, len(grid))
	for i, row := range grid {
		cp[i] = append([]string(nil), row...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[sheetKey{ref, index}] = cp
}

// PutValues lays values out on a fresh grid according to layout, so a later
// read with the same layout returns them.
func (s *Store) PutValues(ref string, index int, layout catalog.Layout, values map[string]string) {
	rows, cols := ports.Bounds(layout)
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
	}
	for _, cell := range layout.Cells {
		v, ok := values[cell.TypeID]
		if !ok {
			continue
		}
		r := layout.HeaderRows - 1 + cell.Row
		if r < 0 || cell.Col < 1 {
			continue
		}
		grid[r][cell.Col-1] = v
	}
	s.PutGrid(ref, index, grid)
}

func (s *Store) ReadLeafValues(_ context.Context, req ports.SheetRequest, layout catalog.Layout) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	grid, ok := s.grids[sheetKey{req.Ref, req.SheetIndex}]
	if !ok {
		return nil, fmt.Errorf("%w: %q index %d", ports.ErrSheetNotFound, req.Ref, req.SheetIndex)
	}
	return ports.ExtractLeafValues(grid, layout), nil
}

// Reads reports how many reads the store has served.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
