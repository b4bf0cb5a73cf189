package redis

import (
	"context"
	"slices"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/flatdb/internal/db"
)

// Load returns the serialized collection stored under the prefixed key.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := db.ValidateName(name); err != nil {
		return nil, err
	}
	cmd := s.b().Get().Key(s.key(name)).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpLoad, Key: name, Err: err}
	}
	return data, nil
}

// Save replaces the serialized collection with a single SET.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := db.ValidateName(name); err != nil {
		return err
	}
	cmd := s.b().Set().Key(s.key(name)).Value(rueidis.BinaryString(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSave, Key: name, Err: err}
	}
	return nil
}

// List scans the key prefix and returns collection names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(s.prefix + "*").Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpList, Err: err}
		}
		for _, k := range res.Elements {
			name := strings.TrimPrefix(k, s.prefix)
			if db.ValidateName(name) != nil {
				continue
			}
			names = append(names, name)
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	// SCAN may return a key more than once.
	slices.Sort(names)
	return slices.Compact(names), nil
}
