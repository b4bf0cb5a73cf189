package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound signals a missing user; matches ErrNotFound.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrAlreadyExists signals an id already taken in the collection.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStorage signals an unreadable or unwritable collection.
	ErrStorage = errors.New("storage error")
	// ErrInvalidInput signals a request the store cannot apply.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// StorageError reports an I/O or decode failure for one collection.
// It matches ErrStorage via errors.Is and unwraps to the cause.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s collection %s: %v", ErrStorage, e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports ErrStorage as a match in addition to the wrapped chain.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError creates a storage error for the given operation and collection.
func NewStorageError(op, collection string, err error) error {
	return &StorageError{Op: op, Collection: collection, Err: err}
}
