package backend

import (
	"context"

	"budgetsheet/internal/services"
	"budgetsheet/internal/sheets"
	"budgetsheet/internal/storage"
)

type CleanupFunc func() error

// Result bundles the collaborators a processor needs.
type Result struct {
	Catalogs *services.CachedCatalogProvider
	Source   sheets.ValueSource
	// Store is set only for the sqlite catalog backend.
	Store   *storage.SQLiteRepository
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory wires catalog and value source implementations from configuration.
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}
