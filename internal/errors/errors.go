// Package errors defines the typed error kinds surfaced by mtsearch's
// dispatcher: InputValidation, PathNotFound, NotIndexed, IOFailure, and
// PoolStopped. Handlers map any of these to an "error: <message>" line
// without terminating the command loop.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of a dispatcher-facing error.
type Kind string

const (
	// KindInputValidation covers empty queries and malformed command arguments.
	KindInputValidation Kind = "input_validation"
	// KindPathNotFound covers a resolved path that does not exist or is the wrong kind.
	KindPathNotFound Kind = "path_not_found"
	// KindNotIndexed covers remove_file on a path the index does not hold.
	KindNotIndexed Kind = "not_indexed"
	// KindIOFailure covers a file that cannot be opened or fully read.
	KindIOFailure Kind = "io_failure"
	// KindPoolStopped covers enqueue after worker-pool shutdown has begun.
	KindPoolStopped Kind = "pool_stopped"
)

// Error is the single error type used across mtsearch's public surface.
type Error struct {
	Kind       Kind
	Operation  string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// New creates an Error of the given kind for the named operation.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Operation: op, Underlying: err, Timestamp: time.Now()}
}

// WithPath attaches a path to the error for display.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		if e.Underlying != nil {
			return fmt.Sprintf("%s: %s: %v", e.Operation, e.Path, e.Underlying)
		}
		return fmt.Sprintf("%s: %s", e.Operation, e.Path)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Underlying)
	}
	return e.Operation
}

// Unwrap supports errors.Is/errors.As against the underlying cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// MultiError aggregates independent per-path failures, e.g. from a
// directory removal where some paths fail and others succeed.
type MultiError struct {
	Errors []error
}

// NewMultiError filters nils and returns an aggregate error, or nil if
// errs contains nothing but nils.
func NewMultiError(errs []error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap exposes the wrapped errors for errors.Is/errors.As.
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// InputValidation is a convenience constructor for the common no-path case.
func InputValidation(op string, err error) *Error {
	return New(KindInputValidation, op, err)
}

// PathNotFound is a convenience constructor.
func PathNotFound(op, path string) *Error {
	return New(KindPathNotFound, op, nil).WithPath(path)
}

// NotIndexed is a convenience constructor.
func NotIndexed(op, path string) *Error {
	return New(KindNotIndexed, op, nil).WithPath(path)
}

// IOFailure is a convenience constructor.
func IOFailure(op, path string, err error) *Error {
	return New(KindIOFailure, op, err).WithPath(path)
}

// PoolStopped is a convenience constructor.
func PoolStopped(op string) *Error {
	return New(KindPoolStopped, op, nil)
}
