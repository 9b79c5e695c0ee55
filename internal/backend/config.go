package backend

import (
	"fmt"
	"time"

	"budgetsheet/internal/config"
)

type CatalogBackend string

const (
	EmbeddedCatalog CatalogBackend = config.CatalogEmbedded
	FileCatalog     CatalogBackend = config.CatalogFile
	SQLiteCatalog   CatalogBackend = config.CatalogSQLite
)

func (b CatalogBackend) IsValid() bool {
	switch b {
	case EmbeddedCatalog, FileCatalog, SQLiteCatalog:
		return true
	default:
		return false
	}
}

type SourceType string

const (
	CSVSource    SourceType = config.SourceCSV
	SheetsSource SourceType = config.SourceSheets
	MemorySource SourceType = config.SourceMemory
)

func (s SourceType) IsValid() bool {
	switch s {
	case CSVSource, SheetsSource, MemorySource:
		return true
	default:
		return false
	}
}

type Config struct {
	Catalog      CatalogBackend
	CatalogFile  string
	SQLiteDBPath string
	CacheTTL     time.Duration

	Source SourceType
	CSVDir string

	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	c := Config{
		Catalog:      CatalogBackend(appConfig.CatalogBackend),
		CatalogFile:  appConfig.CatalogFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		CacheTTL:     appConfig.CatalogCacheTTL,

		Source: SourceType(appConfig.ValueSource),
		CSVDir: appConfig.CSVDir,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if !c.Catalog.IsValid() {
		return fmt.Errorf("invalid catalog backend: %s", c.Catalog)
	}
	if !c.Source.IsValid() {
		return fmt.Errorf("invalid value source: %s", c.Source)
	}
	if c.Catalog == FileCatalog && c.CatalogFile == "" {
		return fmt.Errorf("catalog file is required for file catalog backend")
	}
	if c.Catalog == SQLiteCatalog && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite catalog backend")
	}
	if c.Source == CSVSource && c.CSVDir == "" {
		return fmt.Errorf("CSV directory is required for csv value source")
	}
	return nil
}
