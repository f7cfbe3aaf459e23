// Package sqlite contains SQLite implementations of the persistence ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// KeyValueStore implements secondary.KeyValueStore with SQLite.
type KeyValueStore struct {
	db *sql.DB
}

// NewKeyValueStore creates a new SQLite key-value store.
func NewKeyValueStore(db *sql.DB) *KeyValueStore {
	return &KeyValueStore{db: db}
}

// Get retrieves the value stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE key = ?",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", secondary.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return value, nil
}

// Set overwrites the value stored under key.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

// Close closes the underlying database.
func (s *KeyValueStore) Close() error {
	return s.db.Close()
}

// Ensure KeyValueStore implements the interface
var _ secondary.KeyValueStore = (*KeyValueStore)(nil)
