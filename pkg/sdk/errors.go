package flatdb

import (
	"errors"

	"github.com/kailas-cloud/flatdb/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrUserNotFound  = domain.ErrUserNotFound
	ErrAlreadyExists = domain.ErrAlreadyExists
	ErrStorage       = domain.ErrStorage
	ErrInvalidInput  = domain.ErrInvalidInput
)

// errUnhealthy marks a failed health check in SDK metrics.
var errUnhealthy = errors.New("unhealthy")
