package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"budgetsheet/internal/catalog"
	ports "budgetsheet/internal/sheets"
)

var layout = catalog.Layout{
	HeaderRows: 1,
	Cells: []catalog.Cell{
		{Row: 1, Col: 2, TypeID: "t1"},
		{Row: 2, Col: 2, TypeID: "t2"},
		{Row: 3, Col: 3, TypeID: "t3"},
	},
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadLeafValues_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2024", "2.csv"), "name,value,extra\nrent,1500\nfood,\" 250.5 \"\nmisc,,N/A\n")

	got, err := New(dir).ReadLeafValues(context.Background(), ports.SheetRequest{Ref: "2024", SheetIndex: 2}, layout)
	if err != nil {
		t.Fatalf("ReadLeafValues: %v", err)
	}
	want := map[string]string{"t1": "1500", "t2": "250.5", "t3": "N/A"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLeafValues_DirectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "march.csv")
	writeFile(t, path, "h\nx,7\n")

	got, err := New(dir).ReadLeafValues(context.Background(), ports.SheetRequest{Ref: "march.csv", SheetIndex: 8}, layout)
	if err != nil {
		t.Fatalf("ReadLeafValues: %v", err)
	}
	if got["t1"] != "7" || len(got) != 1 {
		t.Fatalf("unexpected values: %v", got)
	}
}

func TestReadLeafValues_Missing(t *testing.T) {
	_, err := New(t.TempDir()).ReadLeafValues(context.Background(), ports.SheetRequest{Ref: "nope", SheetIndex: 2}, layout)
	if !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadLeafValues_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir()).ReadLeafValues(ctx, ports.SheetRequest{}, layout)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPath(t *testing.T) {
	s := New("/data")
	tests := []struct {
		req  ports.SheetRequest
		want string
	}{
		{ports.SheetRequest{Ref: "wb", SheetIndex: 5}, filepath.Join("/data", "wb", "5.csv")},
		{ports.SheetRequest{Ref: "jan.csv"}, filepath.Join("/data", "jan.csv")},
		{ports.SheetRequest{Ref: "exports/jan.CSV"}, filepath.Join("/data", "exports", "jan.CSV")},
		{ports.SheetRequest{Ref: "2024/../2025", SheetIndex: 3}, filepath.Join("/data", "2025", "3.csv")},
		{ports.SheetRequest{SheetIndex: 2}, filepath.Join("/data", "2.csv")},
	}
	for _, tt := range tests {
		got, err := s.Path(tt.req)
		if err != nil {
			t.Errorf("Path(%+v): %v", tt.req, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Path(%+v) = %q, want %q", tt.req, got, tt.want)
		}
	}
}

func TestPath_RejectsEscapingRefs(t *testing.T) {
	s := New("/data")
	for _, ref := range []string{"/etc/passwd.csv", "../secrets.csv", "../../etc/x", "wb/../../other"} {
		if got, err := s.Path(ports.SheetRequest{Ref: ref, SheetIndex: 2}); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("Path(%q) = %q, %v; want ErrInvalidRef", ref, got, err)
		}
	}
}

func TestReadLeafValues_OutsideDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "outside.csv"), "h\nx,7\n")
	dir := filepath.Join(root, "sheets")

	_, err := New(dir).ReadLeafValues(context.Background(), ports.SheetRequest{Ref: "../outside.csv"}, layout)
	if !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("expected ErrInvalidRef, got %v", err)
	}
	_, err = New(dir).ReadLeafValues(context.Background(), ports.SheetRequest{Ref: filepath.Join(root, "outside.csv")}, layout)
	if !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("expected ErrInvalidRef for absolute ref, got %v", err)
	}
}

func TestReadGrid_RaggedRows(t *testing.T) {
	grid, err := ReadGrid(strings.NewReader("a,b,c\nd\ne,f\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(grid) != 3 || len(grid[1]) != 1 || grid[2][1] != "f" {
		t.Fatalf("unexpected grid: %v", grid)
	}
}
