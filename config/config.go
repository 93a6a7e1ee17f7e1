package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hryucha/protein-catalog/app/sheet"
	"github.com/hryucha/protein-catalog/models"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	defaultSheetID  = "1-9ZBfjg4LhWyH83BEv8EM95D8FrpnzUR0v9fsTtmHK0"
	defaultSheetGID = "0"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds the configuration for the server.
type Config struct {
	HTTPAddr string

	SheetURL    string
	SheetFormat sheet.Format

	FetchTimeout    time.Duration
	FetchRetries    int
	FetchRetryDelay time.Duration
	CacheTTL        time.Duration

	StoreDriver string
	DatabaseDSN string
	SQLitePath  string
	StorageKey  string

	LogLevel zapcore.Level
}

// Load reads a .env file if one exists and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return NewFromEnv()
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		SheetFormat: sheet.Format(getEnv("SHEET_FORMAT", string(sheet.FormatCSV))),
		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/filters.db"),
		StorageKey:  getEnv("STORAGE_KEY", models.DefaultStorageKey),
	}

	if !cfg.SheetFormat.IsValid() {
		return nil, fmt.Errorf("SHEET_FORMAT must be csv or xlsx, got %q", cfg.SheetFormat)
	}
	cfg.SheetURL = os.Getenv("SHEET_URL")
	if cfg.SheetURL == "" {
		cfg.SheetURL = sheet.ExportURL(
			getEnv("SHEET_ID", defaultSheetID),
			getEnv("SHEET_GID", defaultSheetGID),
			cfg.SheetFormat,
		)
	}

	var err error
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchRetryDelay, err = getDuration("FETCH_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.FetchRetries = 2
	if v := os.Getenv("FETCH_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("FETCH_RETRIES must be a non-negative integer, got %q", v)
		}
		cfg.FetchRetries = n
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN environment variable not set")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be memory, sqlite or postgres, got %q", cfg.StoreDriver)
	}

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
