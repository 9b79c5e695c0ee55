package backend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"budgetsheet/internal/catalog"
	"budgetsheet/internal/config"
	"budgetsheet/internal/log"
	"budgetsheet/internal/sheets/csvfile"
	"budgetsheet/internal/sheets/memory"
)

func quietFactory() Factory {
	return NewFactory(log.New(log.Config{Output: io.Discard}))
}

func TestCreate_EmbeddedMemory(t *testing.T) {
	res, err := quietFactory().Create(context.Background(), Config{Catalog: EmbeddedCatalog, Source: MemorySource, CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer res.Close()

	if _, ok := res.Source.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", res.Source)
	}
	c, err := res.Catalogs.Catalog(context.Background())
	if err != nil || len(c.Types) == 0 {
		t.Fatalf("embedded catalog: %v, %v", c, err)
	}
	if res.Store != nil {
		t.Fatal("embedded backend should not open a store")
	}
}

func TestCreate_FileCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	def, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	data, err := def.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := quietFactory().Create(context.Background(), Config{Catalog: FileCatalog, CatalogFile: path, Source: CSVSource, CSVDir: dir})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := res.Source.(csvfile.Source); !ok {
		t.Fatalf("expected csv source, got %T", res.Source)
	}
	c, err := res.Catalogs.Catalog(context.Background())
	if err != nil || len(c.Chapters) != len(def.Chapters) {
		t.Fatalf("file catalog: %v", err)
	}
}

func TestCreate_SQLiteSeedsStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	res, err := quietFactory().Create(context.Background(), Config{Catalog: SQLiteCatalog, SQLiteDBPath: dbPath, Source: MemorySource})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer res.Close()

	if res.Store == nil {
		t.Fatal("expected store for sqlite backend")
	}
	empty, err := res.Store.IsEmpty(context.Background())
	if err != nil || empty {
		t.Fatalf("store should be seeded: empty=%v err=%v", empty, err)
	}
	c, err := res.Catalogs.Catalog(context.Background())
	if err != nil || len(c.Layout.Cells) == 0 {
		t.Fatalf("sqlite catalog: %v", err)
	}
}

func TestCreate_Errors(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"bad catalog", Config{Catalog: "redis", Source: MemorySource}, "invalid catalog backend"},
		{"bad source", Config{Catalog: EmbeddedCatalog, Source: "xlsx"}, "invalid value source"},
		{"missing file", Config{Catalog: FileCatalog, CatalogFile: "/nope.toml", Source: MemorySource}, "failed to load catalog file"},
		{"sheets without credentials", Config{Catalog: EmbeddedCatalog, Source: SheetsSource}, "missing service account credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietFactory().Create(context.Background(), tt.config)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg := &config.Config{
		CatalogBackend:  config.CatalogSQLite,
		SQLiteDBPath:    "/tmp/x.db",
		CatalogCacheTTL: time.Minute,
		ValueSource:     config.SourceCSV,
		CSVDir:          "./sheets",
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if got.Catalog != SQLiteCatalog || got.Source != CSVSource || got.CacheTTL != time.Minute || got.CSVDir != "./sheets" {
		t.Fatalf("unexpected backend config: %+v", got)
	}
}
