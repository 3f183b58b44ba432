// Package apperr defines the error taxonomy shared by all domain services.
// Handlers map kinds to transport status codes; the services themselves stay
// transport-agnostic.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API layer.
type Kind int

const (
	// KindInvalidArgument marks a request rejected before touching storage.
	KindInvalidArgument Kind = iota
	// KindNotFound marks an explicit single-code lookup that matched nothing.
	KindNotFound
	// KindUnavailable marks a storage read/write failure, propagated unchanged.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid-argument"
	case KindNotFound:
		return "not-found"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Error carries a kind plus a human-readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid returns an InvalidArgument error.
func Invalid(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a NotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a storage failure.
func Unavailable(msg string, err error) *Error {
	return &Error{Kind: KindUnavailable, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, or KindUnavailable if err carries none.
// Unknown errors are treated as storage-layer failures so that nothing leaks
// to callers as a silent success.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
