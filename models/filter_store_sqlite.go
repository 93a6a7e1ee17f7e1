package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteFilterStore persists filter state in an embedded sqlite database.
type SQLiteFilterStore struct {
	db  *sql.DB
	key string
}

func NewSQLiteFilterStore(dbPath, key string) (*SQLiteFilterStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteFilterStore{db: db, key: key}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteFilterStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteFilterStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS filter_states (
        key TEXT PRIMARY KEY,
        payload TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteFilterStore) Load(ctx context.Context) (FilterPatch, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM filter_states WHERE key = ?`, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return FilterPatch{}, ErrStateNotFound
	}
	if err != nil {
		return FilterPatch{}, fmt.Errorf("failed to load filter state: %w", err)
	}
	return DecodeFilterPatch([]byte(payload))
}

func (s *SQLiteFilterStore) Save(ctx context.Context, state FilterState) error {
	data, err := encodeFilterState(state)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO filter_states (key, payload, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
    `
	if _, err := s.db.ExecContext(ctx, query, s.key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save filter state: %w", err)
	}
	return nil
}
