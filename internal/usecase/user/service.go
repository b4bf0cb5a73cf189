package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/flatdb/internal/domain"
	domrec "github.com/kailas-cloud/flatdb/internal/domain/record"
)

// Defaults applied when the caller does not choose a collection or page.
const (
	DefaultCollection = "users"
	DefaultPage       = 1
	DefaultPageSize   = 10
)

// Service exposes user records stored in one collection.
type Service struct {
	repo       Repository
	collection string
	pageSize   int
}

// New creates a user service. Empty collection and non-positive pageSize fall back to defaults.
func New(repo Repository, collection string, pageSize int) *Service {
	if collection == "" {
		collection = DefaultCollection
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{repo: repo, collection: collection, pageSize: pageSize}
}

// Collection returns the name of the backing collection.
func (s *Service) Collection() string { return s.collection }

// List returns every user in stored order.
func (s *Service) List(ctx context.Context) ([]domrec.Record, error) {
	users, err := s.repo.Find(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// Get returns the user with the given id or domain.ErrUserNotFound.
func (s *Service) Get(ctx context.Context, id int64) (domrec.Record, error) {
	u, err := s.repo.FindOne(ctx, s.collection, domrec.ByID(id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Paginate returns one page of users. Zero page or limit select the defaults.
func (s *Service) Paginate(ctx context.Context, page, limit int) (domrec.Page, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = s.pageSize
	}
	p, err := s.repo.Paginate(ctx, s.collection, page, limit)
	if err != nil {
		return domrec.Page{}, fmt.Errorf("paginate users: %w", err)
	}
	return p, nil
}

// Create stores a new user; an id is assigned when data carries none.
func (s *Service) Create(ctx context.Context, data domrec.Record) (domrec.Record, error) {
	if data == nil {
		return nil, fmt.Errorf("create user: %w: empty body", domain.ErrInvalidInput)
	}
	u, err := s.repo.InsertOne(ctx, s.collection, data)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update merges patch into the user with the given id and returns the number
// of users changed (0 when the id is unknown). The patch may repeat the id but
// not change it.
func (s *Service) Update(ctx context.Context, id int64, patch domrec.Record) (int, error) {
	if v, ok := patch[domrec.IDField]; ok && !domrec.Equal(v, id) {
		return 0, fmt.Errorf("update user: %w: id cannot be changed", domain.ErrInvalidInput)
	}
	n, err := s.repo.UpdateMany(ctx, s.collection, domrec.ByID(id), patch)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return n, nil
}

// Delete removes the user with the given id and returns how many were removed.
func (s *Service) Delete(ctx context.Context, id int64) (int, error) {
	n, err := s.repo.DeleteMany(ctx, s.collection, domrec.ByID(id))
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return n, nil
}
