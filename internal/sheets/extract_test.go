package sheets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"budgetsheet/internal/catalog"
)

func TestExtractLeafValues(t *testing.T) {
	grid := [][]string{
		{"header", "", ""},
		{"row 1", "10", ""},
		{"row 2", "  ", "abc"},
		{"row 3", " 2.5 "},
	}
	layout := catalog.Layout{
		HeaderRows: 1,
		Cells: []catalog.Cell{
			{Row: 1, Col: 2, TypeID: "a"},
			{Row: 2, Col: 2, TypeID: "blank"},
			{Row: 2, Col: 3, TypeID: "text"},
			{Row: 3, Col: 2, TypeID: "trimmed"},
			{Row: 3, Col: 3, TypeID: "short-row"},
			{Row: 9, Col: 1, TypeID: "below"},
			{Row: 1, Col: 0, TypeID: "bad-col"},
		},
	}
	want := map[string]string{"a": "10", "text": "abc", "trimmed": "2.5"}
	if diff := cmp.Diff(want, ExtractLeafValues(grid, layout)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractLeafValues_HeaderRows(t *testing.T) {
	grid := [][]string{{"title"}, {"header"}, {"7"}}
	layout := catalog.Layout{HeaderRows: 2, Cells: []catalog.Cell{{Row: 1, Col: 1, TypeID: "t"}}}
	if got := ExtractLeafValues(grid, layout); got["t"] != "7" {
		t.Fatalf("expected 7, got %v", got)
	}
	layout.HeaderRows = 0
	if got := ExtractLeafValues(grid, layout); got["t"] != "header" {
		t.Fatalf("with no header rows expected grid[0], got %v", got)
	}
}

func TestBounds(t *testing.T) {
	layout := catalog.Layout{HeaderRows: 1, Cells: []catalog.Cell{{Row: 6, Col: 7}, {Row: 314, Col: 3}}}
	rows, cols := Bounds(layout)
	if rows != 315 || cols != 7 {
		t.Fatalf("Bounds = %d,%d; want 315,7", rows, cols)
	}
}
