package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"budgetsheet/internal/core"
	"budgetsheet/internal/services"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupCSV(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CATALOG_BACKEND", "embedded")
	t.Setenv("VALUE_SOURCE", "csv")
	t.Setenv("CSV_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestProcessCommand(t *testing.T) {
	dir := setupCSV(t)

	// March, sheet 1 lives at index 8. Type 1_1111 sits on row 6, column 7
	// below a single header row.
	lines := []string{"header", ",", ",", ",", ",", ",", ",,,,,,1500.5"}
	if err := os.MkdirAll(filepath.Join(dir, "2024"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2024", "8.csv"), []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "process", "--ref", "2024", "--month", "3", "--sheet", "1", "--summary")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	var report services.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Failed() {
		t.Fatalf("report failed: %+v", report.Data)
	}
	if report.ActualSheetIndex != 8 {
		t.Errorf("actual_sheet_index = %d, want 8", report.ActualSheetIndex)
	}
	if len(report.Data.HierarchicalRows) != 0 {
		t.Errorf("summary mode returned %d hierarchical rows", len(report.Data.HierarchicalRows))
	}

	wantTop := map[string]string{"1_1": "1500.5", "1_11": "1500.5", "1_111": "1500.5", "1_1111": "1500.5"}
	for _, views := range [][]core.NodeView{report.Data.Chapters, report.Data.Sections, report.Data.Items, report.Data.Types} {
		if len(views) != 1 {
			t.Fatalf("got %d nodes on a level, want 1: %+v", len(views), views)
		}
		want, ok := wantTop[views[0].ID]
		if !ok || views[0].Value != want {
			t.Errorf("node %s = %s, want %s", views[0].ID, views[0].Value, want)
		}
	}
}

func TestProcessCommand_MissingSheet(t *testing.T) {
	setupCSV(t)

	out, err := runRoot(t, "process", "--ref", "missing", "--month", "5", "--sheet", "1", "--summary=false")
	if !errors.Is(err, errReportFailed) {
		t.Fatalf("err = %v, want errReportFailed", err)
	}

	var report services.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Status != services.StatusError {
		t.Errorf("status = %q, want %q", report.Status, services.StatusError)
	}
	if report.Data == nil || report.Data.Error == "" {
		t.Errorf("expected error message in data, got %+v", report.Data)
	}
}
