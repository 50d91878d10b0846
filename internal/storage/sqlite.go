package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite keeps values in a single key/value table.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLite, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	dsn := trimmed
	if trimmed != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(trimmed), 0o700); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		dsn = trimmed + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage get: %w", err)
	}
	return value, true, nil
}

func (s *SQLite) Set(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage set: %w", err)
	}
	for k, v := range values {
		if _, err := tx.Exec(`
			INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("storage set: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage set: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage delete: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, k); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("storage delete: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage delete: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
