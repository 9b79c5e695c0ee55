// Package catalog holds the static chart of accounts: the names of every
// chapter, section, item and type, how they nest, and where each type's
// value sits on the monthly sheet.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"budgetsheet/internal/core"
)

//go:embed default.toml
var defaultTOML []byte

type (
	Catalog struct {
		Chapters []core.Entry `toml:"chapters"`
		Sections []core.Entry `toml:"sections"`
		Items    []core.Entry `toml:"items"`
		Types    []core.Entry `toml:"types"`
		Links    Links        `toml:"links"`
		Layout   Layout       `toml:"layout"`
	}

	// Links maps parent ids to ordered child ids, one map per parent level.
	Links struct {
		Items    map[string][]string `toml:"items"`    // item -> types
		Sections map[string][]string `toml:"sections"` // section -> items
		Chapters map[string][]string `toml:"chapters"` // chapter -> sections
	}

	// Layout locates type values on a sheet. Rows count from the first row
	// below the header rows and columns are 1-based.
	Layout struct {
		HeaderRows int    `toml:"header_rows"`
		Cells      []Cell `toml:"cells"`
	}

	Cell struct {
		Row    int    `toml:"row"`
		Col    int    `toml:"col"`
		TypeID string `toml:"type_id"`
	}
)

var (
	ErrInvalidMonth       = errors.New("invalid month: must be between 1 and 12")
	ErrInvalidSheetNumber = errors.New("invalid sheet number: must be 1 or 2")
)

// Default returns the built-in chart of accounts.
func Default() (*Catalog, error) {
	c, err := Parse(defaultTOML)
	if err != nil {
		return nil, fmt.Errorf("parse default catalog: %w", err)
	}
	return c, nil
}

// Parse decodes a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Layout.HeaderRows < 0 {
		return nil, fmt.Errorf("layout.header_rows must not be negative, got %d", c.Layout.HeaderRows)
	}
	return &c, nil
}

// LoadFile reads a TOML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes the catalog back to TOML.
func (c *Catalog) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Build returns a fresh tree seeded with the catalog's entries and links.
// Every call yields an independent tree.
func (c *Catalog) Build() *core.Tree {
	t := core.NewTree()
	t.InitializeStructure(c.Chapters, c.Sections, c.Items, c.Types)
	t.LinkHierarchy(c.Links.Items, c.Links.Sections, c.Links.Chapters)
	return t
}

// SheetIndex returns the zero-based workbook index of a month's sheet. Each
// month occupies three consecutive sheets after a leading cover sheet; the
// first is the hierarchical revenue/use sheet and the second the accounts
// sheet.
func SheetIndex(month, sheetNumber int) (int, error) {
	if month < 1 || month > 12 {
		return 0, ErrInvalidMonth
	}
	switch sheetNumber {
	case 1:
		return 3*month - 1, nil
	case 2:
		return 3 * month, nil
	default:
		return 0, ErrInvalidSheetNumber
	}
}

// Static serves a fixed catalog.
type Static struct {
	C *Catalog
}

func (s Static) Catalog(_ context.Context) (*Catalog, error) {
	if s.C == nil {
		return nil, errors.New("static catalog not set")
	}
	return s.C, nil
}

// File loads the catalog from a TOML file on every call.
type File struct {
	Path string
}

func (f File) Catalog(_ context.Context) (*Catalog, error) {
	return LoadFile(f.Path)
}
