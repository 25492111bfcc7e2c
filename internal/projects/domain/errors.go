package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by storage adapters when the backend
// confirms the key does not exist. Load surfaces it as a nil record,
// never as an error.
var ErrNotFound = errors.New("project not found")

// TransientError marks a failure as retryable (service unavailable,
// throttling, network-class errors). Storage adapters wrap SDK errors
// in it; the retry executor checks for it.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

func (e *TransientError) Retryable() bool { return true }

// Transient wraps err so the retry executor will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsRetryable reports whether err (or anything it wraps) is marked
// retryable. Errors without a classification are terminal.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// StoreOperationError wraps a storage failure with the operation name
// and the number of attempts made before giving up.
type StoreOperationError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *StoreOperationError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *StoreOperationError) Unwrap() error { return e.Err }

// SerializationError reports a record body that could not be decoded.
// Decode failures are terminal: retrying cannot fix a malformed blob.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("malformed record body at %s: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
