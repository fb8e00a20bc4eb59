// Package store provides SQLite-backed durable client storage: the
// persisted auth token and small UI preferences. It is the local-storage
// analog for a terminal client.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the on-disk client state database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the state database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	return err
}

func (s *Store) delete(key string) error {
	_, err := s.db.Exec("DELETE FROM client_state WHERE key = ?", key)
	return err
}

// Token returns the persisted auth token, or "" when signed out.
func (s *Store) Token() (string, error) {
	return s.get(keyAuthToken)
}

// SetToken persists the auth token.
func (s *Store) SetToken(token string) error {
	return s.set(keyAuthToken, token)
}

// ClearToken removes the persisted auth token.
func (s *Store) ClearToken() error {
	return s.delete(keyAuthToken)
}

// LastTimeFilter returns the last time filter the user had selected, or
// "" when never saved.
func (s *Store) LastTimeFilter() (string, error) {
	return s.get(keyTimeFilter)
}

// SetLastTimeFilter remembers the selected time filter for the next run.
func (s *Store) SetLastTimeFilter(tf string) error {
	return s.set(keyTimeFilter, tf)
}
