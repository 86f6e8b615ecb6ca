package admindash

import (
	"errors"
	"fmt"

	"github.com/youssefsiam38/admindash/storage"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound is returned when a user or product does not exist.
	// It also matches storage.ErrNotFound.
	ErrNotFound = fmt.Errorf("record %w", storage.ErrNotFound)

	// ErrPermissionDenied is returned when a viewer attempts a write
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput is returned when a user or product fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRole is returned for a viewer role other than admin or viewer
	ErrInvalidRole = errors.New("invalid role")

	// ErrUnsupportedFormat is returned for an unknown export format
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// =========================================================================
	// Client errors
	// =========================================================================

	// ErrClientNotStarted is returned when calling methods before Start()
	ErrClientNotStarted = errors.New("client not started")

	// ErrClientAlreadyStarted is returned when Start() is called twice
	ErrClientAlreadyStarted = errors.New("client already started")
)

// Error represents a failed dashboard operation with its context
type Error struct {
	Op     string // Operation that failed
	Entity string // "user", "product" or "dataset"
	ID     int64  // Record ID if applicable
	Err    error  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err, translating storage.ErrNotFound into ErrNotFound.
func newError(op, entity string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) && !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return &Error{Op: op, Entity: entity, ID: id, Err: err}
}
