// Package jsonfile stores each collection as a separate JSON file on disk.
//
// Layout:
//
//	data_dir/
//	  users.json   # "users" collection
//	  notes.json   # "notes" collection
package jsonfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/flatdb/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const ext = ".json"

// Config holds the data directory location.
type Config struct {
	Dir string
}

// Store implements db.Store over a directory of JSON files.
type Store struct {
	dir string
}

// NewStore creates the data directory if needed and returns a Store over it.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Key: cfg.Dir, Err: err}
	}
	return &Store{dir: cfg.Dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) collectionPath(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// Load reads the whole collection file.
func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	if err := db.ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.collectionPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpLoad, Key: name, Err: err}
	}
	return data, nil
}

// Save overwrites the collection file in a single synchronous write.
func (s *Store) Save(_ context.Context, name string, data []byte) error {
	if err := db.ValidateName(name); err != nil {
		return err
	}
	if err := os.WriteFile(s.collectionPath(name), data, 0o644); err != nil {
		return &db.Error{Op: db.OpSave, Key: name, Err: err}
	}
	return nil
}

// List returns the names of all *.json files in the data directory.
func (s *Store) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpList, Key: s.dir, Err: err}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if db.ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Ping checks that the data directory is still present.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return &db.Error{Op: db.OpPing, Key: s.dir, Err: err}
	}
	if !info.IsDir() {
		return &db.Error{Op: db.OpPing, Key: s.dir, Err: errors.New("not a directory")}
	}
	return nil
}

// Close is a no-op; files are opened per call.
func (s *Store) Close() {}

// WaitForReady polls Ping until the directory is available or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout)
}
