// Package apperr defines the failure kinds shared by services and mapped to
// HTTP status codes by the API layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Error is a failure with a kind and a message safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input.
func Validation(format string, args ...any) error { return newf(KindValidation, format, args...) }

// NotFound reports a missing record.
func NotFound(format string, args ...any) error { return newf(KindNotFound, format, args...) }

// Conflict reports a duplicate unique key.
func Conflict(format string, args ...any) error { return newf(KindConflict, format, args...) }

// Unauthorized reports missing or bad credentials.
func Unauthorized(format string, args ...any) error { return newf(KindUnauthorized, format, args...) }

// Forbidden reports an authenticated caller lacking the required role.
func Forbidden(format string, args ...any) error { return newf(KindForbidden, format, args...) }

// Unavailable reports a downstream dependency that could not be reached.
func Unavailable(format string, args ...any) error { return newf(KindUnavailable, format, args...) }

// Wrap attaches a kind and message to err. A nil err stays nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message of the first *Error in err's
// chain, or "" when there is none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return ""
}
