// Package errors defines the error kinds shared by the go-kvlock packages.
// Store trouble and wait-budget exhaustion are distinct kinds so callers can
// branch on cause.
package errors

import (
	"errors"
	"fmt"
)

// ErrLockTimeout is returned when a blocking acquisition exhausts its wait
// budget without obtaining the lock.
var ErrLockTimeout = errors.New("kvlock: lock wait timed out")

// StoreError wraps a failure reported by the backing key-value store. Op names
// the primitive that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("kvlock: store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStore reports whether err is, or wraps, a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
