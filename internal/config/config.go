// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogSQLite   = "sqlite"

	SourceCSV    = "csv"
	SourceSheets = "sheets"
	// SourceMemory is the in-process store used by tests and catalog-only
	// commands. It starts empty, so VALUE_SOURCE does not accept it.
	SourceMemory = "memory"
)

var (
	validCatalogBackends = []string{CatalogEmbedded, CatalogFile, CatalogSQLite}
	validValueSources    = []string{SourceCSV, SourceSheets}
	validLogLevels       = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats      = []string{"text", "json"}
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Catalog
	CatalogBackend  string
	CatalogFile     string
	SQLiteDBPath    string
	CatalogCacheTTL time.Duration

	// Value source
	ValueSource string
	CSVDir      string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP
	AMQPURL          string
	AMQPExchange     string
	AMQPRequestQueue string
	AMQPResultQueue  string

	// Batch
	BatchConcurrency int
}

func Load() *Config {
	return &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		CatalogBackend:  getEnv("CATALOG_BACKEND", CatalogEmbedded),
		CatalogFile:     getEnv("CATALOG_FILE", ""),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/budgetsheet.db"),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 10*time.Minute),

		ValueSource: getEnv("VALUE_SOURCE", SourceCSV),
		CSVDir:      getEnv("CSV_DIR", "./data/sheets"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AMQPURL:          getEnv("AMQP_URL", ""),
		AMQPExchange:     getEnv("AMQP_EXCHANGE", "budgetsheet"),
		AMQPRequestQueue: getEnv("AMQP_REQUEST_QUEUE", "process_requests"),
		AMQPResultQueue:  getEnv("AMQP_RESULT_QUEUE", "budget_reports"),

		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 4),
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	switch c.CatalogBackend {
	case CatalogEmbedded:
	case CatalogFile:
		if c.CatalogFile == "" {
			errors = append(errors, "catalog file path is required when using file catalog backend")
		} else if _, err := os.Stat(c.CatalogFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("catalog file does not exist: %s", c.CatalogFile))
		}
	case CatalogSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite catalog backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid catalog backend '%s': must be one of %v", c.CatalogBackend, validCatalogBackends))
	}

	if c.CatalogCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid catalog cache ttl %v: must not be negative", c.CatalogCacheTTL))
	}

	switch c.ValueSource {
	case SourceCSV:
		if c.CSVDir == "" {
			errors = append(errors, "CSV directory cannot be empty when using csv value source")
		}
	case SourceSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets value source")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets value source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid value source '%s': must be one of %v", c.ValueSource, validValueSources))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRequestQueue == "" {
			errors = append(errors, "AMQP request queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPResultQueue == "" {
			errors = append(errors, "AMQP result queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BatchConcurrency < 1 {
		errors = append(errors, fmt.Sprintf("invalid batch concurrency %d: must be at least 1", c.BatchConcurrency))
	} else if c.BatchConcurrency > 12 {
		errors = append(errors, fmt.Sprintf("invalid batch concurrency %d: must be at most 12", c.BatchConcurrency))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// RequireAMQP reports whether the AMQP settings needed by the worker and
// the enqueue command are present.
func (c *Config) RequireAMQP() error {
	if c.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
