// Package sqlite stores every collection as one row of a SQLite table.
//
// Table:
//
//	collections(name TEXT PRIMARY KEY, body BLOB NOT NULL)
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/kailas-cloud/flatdb/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds the database file location.
type Config struct {
	Path string
}

// Store implements db.Store on a single SQLite database file.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database and ensures the schema exists.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Key: cfg.Path, Err: err}
	}
	conn, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Key: cfg.Path, Err: err}
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, &db.Error{Op: db.OpOpen, Key: cfg.Path, Err: err}
	}
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		body BLOB NOT NULL
	)`); err != nil {
		_ = conn.Close()
		return nil, &db.Error{Op: db.OpOpen, Key: cfg.Path, Err: fmt.Errorf("create schema: %w", err)}
	}
	return &Store{db: conn}, nil
}

// Load returns the stored body of a collection.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := db.ValidateName(name); err != nil {
		return nil, err
	}
	var body []byte
	err := s.db.QueryRowContext(ctx, "SELECT body FROM collections WHERE name = ?", name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpLoad, Key: name, Err: err}
	}
	return body, nil
}

// Save upserts the body of a collection.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := db.ValidateName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (name, body) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body`,
		name, data,
	)
	if err != nil {
		return &db.Error{Op: db.OpSave, Key: name, Err: err}
	}
	return nil
}

// List returns collection names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &db.Error{Op: db.OpList, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	return names, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout)
}
