// Package memory provides a process-local implementation of the persistence ports.
package memory

import (
	"context"
	"sync"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// KeyValueStore implements secondary.KeyValueStore with a map.
// Values do not survive the process.
type KeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKeyValueStore creates an empty in-memory store.
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{values: make(map[string]string)}
}

// Get retrieves the value stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", secondary.ErrKeyNotFound
	}
	return v, nil
}

// Set overwrites the value stored under key.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Close is a no-op.
func (s *KeyValueStore) Close() error {
	return nil
}

var _ secondary.KeyValueStore = (*KeyValueStore)(nil)
