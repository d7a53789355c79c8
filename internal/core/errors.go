package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) by stores when no document exists for a
// slot and year.
var ErrNotFound = errors.New("not found")

// ValidationError is a caller mistake that must be corrected and retried:
// malformed input, an unknown recipient, or a payment above the remaining
// balance.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a requested archived year with no record.
type NotFoundError struct {
	Year int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no archived snapshot for year %d", e.Year)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a read or write failure against snapshot storage.
type StorageError struct {
	Op   string
	Year int
	Err  error
}

func (e *StorageError) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s year %d: %v", e.Op, e.Year, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is, or wraps, a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
