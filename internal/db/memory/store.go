// Package memory keeps collections in process memory (ephemeral, for testing).
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/flatdb/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store implements db.Store over a map of collection name to bytes.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Load returns a copy of the stored collection.
func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	if err := db.ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(data), nil
}

// Save stores a copy of data.
func (s *Store) Save(_ context.Context, name string, data []byte) error {
	if err := db.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = slices.Clone(data)
	return nil
}

// List returns the stored collection names in ascending order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.blobs))
	for name := range s.blobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }
