package db

import (
	"context"
	"fmt"
	"time"
)

// Store is the storage facade: each collection is persisted as one opaque
// serialized blob that is always read and written whole.
type Store interface {
	Pinger
	CollectionStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionStore moves whole serialized collections in and out of the backend.
type CollectionStore interface {
	// Load returns the stored bytes of a collection, or ErrKeyNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save replaces the stored bytes of a collection, creating it if needed.
	Save(ctx context.Context, name string, data []byte) error
	// List returns the names of stored collections in ascending order.
	List(ctx context.Context) ([]string, error)
}

// PollReady polls Ping until the backend responds or timeout expires.
func PollReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	if err := p.Ping(ctx); err == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
