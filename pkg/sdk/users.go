package flatdb

import (
	"context"
	"time"
)

// UserService manages users: records with an integer id in one collection.
type UserService struct {
	svc userUseCase
	obs *observer
}

// Collection returns the backing collection name.
func (s *UserService) Collection() string { return s.svc.Collection() }

// List returns every user.
func (s *UserService) List(ctx context.Context) (_ []Record, err error) {
	defer s.observe("users.list", time.Now(), &err)
	return s.svc.List(ctx)
}

// Get returns the user with the given id, or an error matching ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (_ Record, err error) {
	defer s.observe("users.get", time.Now(), &err)
	return s.svc.Get(ctx, id)
}

// Paginate returns one page of users. Zero page or limit select the defaults.
func (s *UserService) Paginate(ctx context.Context, page, limit int) (_ Page, err error) {
	defer s.observe("users.paginate", time.Now(), &err)
	return s.svc.Paginate(ctx, page, limit)
}

// Create stores a user and returns it with its id.
func (s *UserService) Create(ctx context.Context, data Record) (_ Record, err error) {
	defer s.observe("users.create", time.Now(), &err)
	return s.svc.Create(ctx, data)
}

// Update merges patch into the user and returns how many users changed.
func (s *UserService) Update(ctx context.Context, id int64, patch Record) (_ int, err error) {
	defer s.observe("users.update", time.Now(), &err)
	return s.svc.Update(ctx, id, patch)
}

// Delete removes the user and returns how many users were removed.
func (s *UserService) Delete(ctx context.Context, id int64) (_ int, err error) {
	defer s.observe("users.delete", time.Now(), &err)
	return s.svc.Delete(ctx, id)
}

func (s *UserService) observe(op string, start time.Time, errp *error) {
	s.obs.observe(op, s.svc.Collection(), start, *errp)
}
