package record

import (
	"context"
	"sync"
	"testing"

	"github.com/kailas-cloud/flatdb/internal/db"
)

// mockStore implements the consumer interface for tests. Without overrides it
// behaves as an in-memory backend and counts Save calls.
type mockStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	saves int

	loadFn func(ctx context.Context, name string) ([]byte, error)
	saveFn func(ctx context.Context, name string, data []byte) error
	listFn func(ctx context.Context) ([]string, error)
}

func (m *mockStore) Load(ctx context.Context, name string) ([]byte, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[name]
	if !ok {
		return nil, &db.Error{Op: db.OpLoad, Key: name, Err: db.ErrKeyNotFound}
	}
	return data, nil
}

func (m *mockStore) Save(ctx context.Context, name string, data []byte) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, name, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = data
	m.saves++
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *mockStore) blob(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.blobs[name])
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{blobs: make(map[string][]byte)}
	return New(ms), ms
}

// seedUsers stores the three-user fixture used across tests.
func seedUsers(t *testing.T, ms *mockStore) {
	t.Helper()
	ms.blobs["users"] = []byte(`[
  {"id": 1, "name": "Ivan", "email": "ivan@example.com"},
  {"id": 2, "name": "Maria", "email": "maria@example.com"},
  {"id": 3, "name": "Alex", "email": "alex@example.com"}
]`)
}
