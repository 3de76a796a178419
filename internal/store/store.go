// Package store is the local persistence layer: a small SQLite-backed
// key-value table holding the stored credential, plus the export history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/postdash/internal/migrations"
	"github.com/studiowebux/postdash/internal/types"
)

// CredentialKey is the fixed key the API credential persists under
const CredentialKey = "postman_api_key"

// Store wraps the local SQLite database
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies
// pending schema migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key, or ("", false) when absent
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// RecordExport appends one row to the export history
func (s *Store) RecordExport(path string, entryCount int, format string) error {
	timestampStr := time.Now().Local().Format("2006-01-02 15:04:05")

	_, err := s.db.Exec(`
		INSERT INTO exports (timestamp, path, entry_count, format)
		VALUES (?, ?, ?, ?)
	`, timestampStr, path, entryCount, format)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns the export history, most recent first
func (s *Store) ListExports() ([]types.ExportRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, timestamp, path, entry_count
		FROM exports
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load export history: %w", err)
	}
	defer rows.Close()

	var records []types.ExportRecord
	for rows.Next() {
		var r types.ExportRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Path, &r.EntryCount); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
