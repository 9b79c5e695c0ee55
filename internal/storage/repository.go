// Package storage persists the chart of accounts in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"budgetsheet/internal/catalog"
	"budgetsheet/internal/core"

	_ "modernc.org/sqlite"
)

const metaHeaderRows = "header_rows"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Catalog implements services.CatalogProvider.
func (r *SQLiteRepository) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return r.LoadCatalog(ctx)
}

// IsEmpty reports whether no catalog has been stored yet.
func (r *SQLiteRepository) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&n); err != nil {
		return false, fmt.Errorf("count nodes: %w", err)
	}
	return n == 0, nil
}

// SaveCatalog replaces the stored catalog.
func (r *SQLiteRepository) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nodes", "links", "layout_cells", "catalog_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	entries := []struct {
		kind    core.Kind
		entries []core.Entry
	}{
		{core.KindChapter, c.Chapters},
		{core.KindSection, c.Sections},
		{core.KindItem, c.Items},
		{core.KindType, c.Types},
	}
	for _, level := range entries {
		for pos, e := range level.entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO nodes (kind, position, id, name) VALUES (?, ?, ?, ?)`,
				int(level.kind), pos, e.ID, e.Name); err != nil {
				return fmt.Errorf("insert %s %s: %w", level.kind, e.ID, err)
			}
		}
	}

	links := []struct {
		kind     core.Kind
		children map[string][]string
	}{
		{core.KindItem, c.Links.Items},
		{core.KindSection, c.Links.Sections},
		{core.KindChapter, c.Links.Chapters},
	}
	for _, level := range links {
		for parent, children := range level.children {
			for pos, child := range children {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO links (parent_kind, parent_id, position, child_id) VALUES (?, ?, ?, ?)`,
					int(level.kind), parent, pos, child); err != nil {
					return fmt.Errorf("insert link %s -> %s: %w", parent, child, err)
				}
			}
		}
	}

	for pos, cell := range c.Layout.Cells {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO layout_cells (position, row_num, col_num, type_id) VALUES (?, ?, ?, ?)`,
			pos, cell.Row, cell.Col, cell.TypeID); err != nil {
			return fmt.Errorf("insert layout cell %s: %w", cell.TypeID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_meta (key, value) VALUES (?, ?)`,
		metaHeaderRows, strconv.Itoa(c.Layout.HeaderRows)); err != nil {
		return fmt.Errorf("insert header rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}

	slog.InfoContext(ctx, "Catalog saved to SQLite",
		"chapters", len(c.Chapters),
		"sections", len(c.Sections),
		"items", len(c.Items),
		"types", len(c.Types),
		"layout_cells", len(c.Layout.Cells))
	return nil
}

// LoadCatalog rebuilds the stored catalog with entries in stored order.
func (r *SQLiteRepository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c := &catalog.Catalog{
		Links: catalog.Links{
			Items:    map[string][]string{},
			Sections: map[string][]string{},
			Chapters: map[string][]string{},
		},
	}

	rows, err := r.db.QueryContext(ctx, `SELECT kind, id, name FROM nodes ORDER BY kind, position`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	for rows.Next() {
		var kind int
		var e core.Entry
		if err := rows.Scan(&kind, &e.ID, &e.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan node: %w", err)
		}
		switch core.Kind(kind) {
		case core.KindChapter:
			c.Chapters = append(c.Chapters, e)
		case core.KindSection:
			c.Sections = append(c.Sections, e)
		case core.KindItem:
			c.Items = append(c.Items, e)
		case core.KindType:
			c.Types = append(c.Types, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `SELECT parent_kind, parent_id, child_id FROM links ORDER BY parent_kind, parent_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	for rows.Next() {
		var kind int
		var parent, child string
		if err := rows.Scan(&kind, &parent, &child); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan link: %w", err)
		}
		switch core.Kind(kind) {
		case core.KindItem:
			c.Links.Items[parent] = append(c.Links.Items[parent], child)
		case core.KindSection:
			c.Links.Sections[parent] = append(c.Links.Sections[parent], child)
		case core.KindChapter:
			c.Links.Chapters[parent] = append(c.Links.Chapters[parent], child)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `SELECT row_num, col_num, type_id FROM layout_cells ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query layout cells: %w", err)
	}
	for rows.Next() {
		var cell catalog.Cell
		if err := rows.Scan(&cell.Row, &cell.Col, &cell.TypeID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan layout cell: %w", err)
		}
		c.Layout.Cells = append(c.Layout.Cells, cell)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate layout cells: %w", err)
	}

	var headerRows string
	err = r.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = ?`, metaHeaderRows).Scan(&headerRows)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("query header rows: %w", err)
	default:
		n, err := strconv.Atoi(headerRows)
		if err != nil {
			return nil, fmt.Errorf("parse header rows %q: %w", headerRows, err)
		}
		c.Layout.HeaderRows = n
	}

	return c, nil
}

// EnsureCatalog seeds an empty store with fallback and returns the stored
// catalog.
func (r *SQLiteRepository) EnsureCatalog(ctx context.Context, fallback *catalog.Catalog) (*catalog.Catalog, error) {
	empty, err := r.IsEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if empty && fallback != nil {
		slog.InfoContext(ctx, "Seeding empty catalog store")
		if err := r.SaveCatalog(ctx, fallback); err != nil {
			return nil, err
		}
	}
	return r.LoadCatalog(ctx)
}
