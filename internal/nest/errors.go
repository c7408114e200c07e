package nest

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the nesting export path does not exist.
	// It is the only failure an import surfaces to the user.
	ErrFileNotFound = errors.New("nesting export file not found")

	// ErrUnreadable is returned when the file exists but cannot be opened or
	// is not well-formed XML.
	ErrUnreadable = errors.New("nesting export file is unreadable")

	// ErrEmptyValue is reported by the value helpers for blank text.
	ErrEmptyValue = errors.New("empty value")
)

// ParseError wraps a file-level failure with the operation and path.
type ParseError struct {
	// Op is the parser method that failed: "ParseFile", "Parse", "ParseParts" or "Parts".
	Op string

	// Path is the file being parsed.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("nest: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ParseError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// ValueError describes a numeric field that could not be parsed. It never
// leaves this package: the CostInput boundary replaces the value with zero.
type ValueError struct {
	Tag   string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("tag <%s>: failed to parse %q: %v", e.Tag, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
