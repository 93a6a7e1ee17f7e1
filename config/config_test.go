package config

import (
	"testing"
	"time"

	"github.com/hryucha/protein-catalog/app/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var envKeys = []string{
	"HTTP_ADDR", "SHEET_ID", "SHEET_GID", "SHEET_FORMAT", "SHEET_URL",
	"FETCH_TIMEOUT", "FETCH_RETRIES", "FETCH_RETRY_DELAY", "CACHE_TTL",
	"STORE_DRIVER", "DATABASE_DSN", "SQLITE_PATH", "STORAGE_KEY", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestNewFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewFromEnv()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, sheet.FormatCSV, cfg.SheetFormat)
	assert.Equal(t, sheet.ExportURL(defaultSheetID, defaultSheetGID, sheet.FormatCSV), cfg.SheetURL)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.Equal(t, time.Second, cfg.FetchRetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "data/filters.db", cfg.SQLitePath)
	assert.Equal(t, "hryucha-filters", cfg.StorageKey)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHEET_ID", "abc")
	t.Setenv("SHEET_GID", "7")
	t.Setenv("SHEET_FORMAT", "xlsx")
	t.Setenv("FETCH_RETRIES", "0")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/catalog")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=xlsx&gid=7", cfg.SheetURL)
	assert.Equal(t, sheet.FormatXLSX, cfg.SheetFormat)
	assert.Equal(t, 0, cfg.FetchRetries)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
}

func TestNewFromEnv_SheetURLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHEET_URL", "http://localhost:9000/products.csv")
	t.Setenv("SHEET_ID", "ignored")

	cfg, err := NewFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/products.csv", cfg.SheetURL)
}

func TestNewFromEnv_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		expectedErr string
	}{
		{name: "Bad format", env: map[string]string{"SHEET_FORMAT": "json"}, expectedErr: `SHEET_FORMAT must be csv or xlsx, got "json"`},
		{name: "Bad duration", env: map[string]string{"FETCH_TIMEOUT": "soon"}, expectedErr: "invalid FETCH_TIMEOUT"},
		{name: "Negative retries", env: map[string]string{"FETCH_RETRIES": "-1"}, expectedErr: "FETCH_RETRIES must be a non-negative integer"},
		{name: "Postgres without DSN", env: map[string]string{"STORE_DRIVER": "postgres"}, expectedErr: "DATABASE_DSN environment variable not set"},
		{name: "Unknown driver", env: map[string]string{"STORE_DRIVER": "redis"}, expectedErr: "STORE_DRIVER must be memory, sqlite or postgres"},
		{name: "Bad log level", env: map[string]string{"LOG_LEVEL": "loud"}, expectedErr: "invalid LOG_LEVEL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := NewFromEnv()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
