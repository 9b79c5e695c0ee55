// Package csvfile reads sheet values from CSV exports of a workbook.
//
// A workbook is a directory holding one file per sheet, named after the
// zero-based sheet index ("2.csv" is the first sheet of January). A request
// whose Ref ends in ".csv" names the file directly. Refs always resolve
// inside Dir.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"budgetsheet/internal/catalog"
	ports "budgetsheet/internal/sheets"
)

// ErrInvalidRef is returned for refs that are absolute or leave Dir.
var ErrInvalidRef = errors.New("csv ref must be a relative path inside the sheets directory")

type Source struct {
	Dir string
}

var _ ports.ValueSource = Source{}

func New(dir string) Source {
	return Source{Dir: dir}
}

func (s Source) ReadLeafValues(ctx context.Context, req ports.SheetRequest, layout catalog.Layout) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(req)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrSheetNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	grid, err := ReadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ports.ExtractLeafValues(grid, layout), nil
}

// Path resolves the file that holds the requested sheet. Refs come from
// queued requests, so absolute paths and refs with ".." segments that
// escape Dir are rejected.
func (s Source) Path(req ports.SheetRequest) (string, error) {
	ref := strings.TrimSpace(req.Ref)
	if ref != "" && !filepath.IsLocal(ref) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	if strings.EqualFold(filepath.Ext(ref), ".csv") {
		return filepath.Join(s.Dir, ref), nil
	}
	return filepath.Join(s.Dir, ref, strconv.Itoa(req.SheetIndex)+".csv"), nil
}

// ReadGrid parses a CSV stream into rows. Rows may have differing lengths.
func ReadGrid(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}
