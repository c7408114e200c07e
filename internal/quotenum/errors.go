package quotenum

import (
	"errors"
	"fmt"
)

var (
	// ErrCounterLocked is returned when another process holds the counter lock
	// for longer than the lock wait allows.
	ErrCounterLocked = errors.New("quote number counter is locked by another process")

	// ErrCounterOverflow is returned when the counter cannot be incremented further.
	ErrCounterOverflow = errors.New("quote number counter overflow")
)

// CounterError wraps counter storage failures with the operation that failed.
type CounterError struct {
	// Op is the operation that failed (e.g., "Read", "Write", "Lock").
	Op string

	// Path is the counter file, if file-backed.
	Path string

	// Err is the underlying error.
	Err error

	// Details adds context, such as how long a lock was waited for.
	Details string
}

// Error implements the error interface.
func (e *CounterError) Error() string {
	target := e.Op
	if e.Path != "" {
		target += " " + e.Path
	}
	if e.Details != "" {
		return fmt.Sprintf("quotenum: %s failed: %s: %v", target, e.Details, e.Err)
	}
	return fmt.Sprintf("quotenum: %s failed: %v", target, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *CounterError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *CounterError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapCounterError wraps err as a CounterError unless it already is one.
func WrapCounterError(op string, err error) error {
	if err == nil {
		return nil
	}

	var cerr *CounterError
	if errors.As(err, &cerr) {
		return err
	}
	return &CounterError{Op: op, Err: err}
}
