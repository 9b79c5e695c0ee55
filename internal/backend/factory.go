// Package backend builds catalog providers and value sources from
// configuration.
package backend

import (
	"context"
	"fmt"

	"budgetsheet/internal/catalog"
	"budgetsheet/internal/log"
	"budgetsheet/internal/services"
	"budgetsheet/internal/sheets"
	"budgetsheet/internal/sheets/csvfile"
	gsheet "budgetsheet/internal/sheets/google"
	"budgetsheet/internal/sheets/memory"
	"budgetsheet/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	provider, err := f.createCatalog(ctx, config, res)
	if err != nil {
		return nil, err
	}
	res.Catalogs = services.NewCachedCatalogProvider(provider, config.CacheTTL)

	res.Source, err = f.createSource(ctx, config)
	if err != nil {
		res.Close()
		return nil, err
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		"catalog", config.Catalog,
		"source", config.Source,
		"cache_ttl", config.CacheTTL)
	return res, nil
}

func (f *DefaultFactory) createCatalog(ctx context.Context, config Config, res *Result) (services.CatalogProvider, error) {
	switch config.Catalog {
	case EmbeddedCatalog:
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		return catalog.Static{C: c}, nil

	case FileCatalog:
		if _, err := catalog.LoadFile(config.CatalogFile); err != nil {
			return nil, fmt.Errorf("failed to load catalog file: %w", err)
		}
		return catalog.File{Path: config.CatalogFile}, nil

	case SQLiteCatalog:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		def, err := catalog.Default()
		if err != nil {
			repo.Close()
			return nil, err
		}
		if _, err := repo.EnsureCatalog(ctx, def); err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to seed catalog store: %w", err)
		}
		res.Store = repo
		res.Cleanup = repo.Close
		f.logger.InfoContext(ctx, "Initialized SQLite catalog store", "db_path", config.SQLiteDBPath)
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s", config.Catalog)
	}
}

func (f *DefaultFactory) createSource(ctx context.Context, config Config) (sheets.ValueSource, error) {
	switch config.Source {
	case CSVSource:
		return csvfile.New(config.CSVDir), nil

	case SheetsSource:
		cli, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			CredentialsJSON: config.GoogleServiceAccountJSON,
			CredentialsFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		return cli, nil

	case MemorySource:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported value source: %s", config.Source)
	}
}
