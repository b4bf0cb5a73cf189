package db

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrInvalidName = errors.New("db: invalid collection name")
)

// Op constants name the backend operation for error context.
const (
	OpLoad  = "LOAD"
	OpSave  = "SAVE"
	OpList  = "LIST"
	OpPing  = "PING"
	OpOpen  = "OPEN"
	OpClose = "CLOSE"
)

// Error wraps an underlying error with the operation name and key for diagnostics.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateName rejects collection names that could escape a backend namespace
// (path separators, leading dots, empty names).
func ValidateName(name string) error {
	if len(name) > 128 || !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
