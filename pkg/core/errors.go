package core

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrDimensionMismatch is returned when an embedding's dimension does
	// not match the store's fixed dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotFound is returned when no entry exists for the given id.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidInput is returned when a setter receives an out-of-domain
	// value, such as a similarity threshold outside [0, 1].
	ErrInvalidInput = errors.New("invalid input")

	// ErrDatabase is returned when the persistence engine fails.
	ErrDatabase = errors.New("database error")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store is closed")
)

// DimensionError reports the expected and actual embedding dimensions.
// It matches ErrDimensionMismatch under errors.Is.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// Is reports whether the target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NotFoundError reports the id that had no entry. It matches ErrNotFound
// under errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry not found: %s", e.ID)
}

// Is reports whether the target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps errors with operation context.
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("vecstore: %v", e.Err)
	}
	return fmt.Sprintf("vecstore: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapError wraps an error with operation context.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// dbError tags an engine failure with ErrDatabase and operation context.
// The driver message is preserved but the chain below ErrDatabase is cut:
// storage failures are treated as non-transient and callers should not
// branch on driver internals.
func dbError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: fmt.Errorf("%w: %v", ErrDatabase, err)}
}
