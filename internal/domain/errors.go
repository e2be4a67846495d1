package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can map them to an HTTP
// status or a console message without string matching.
type ErrorKind string

const (
	ErrValidation        ErrorKind = "VALIDATION"
	ErrNotFound          ErrorKind = "NOT_FOUND"
	ErrConflict          ErrorKind = "CONFLICT"
	ErrInvalidTransition ErrorKind = "INVALID_TRANSITION"
	ErrAuthorization     ErrorKind = "AUTHORIZATION"
	ErrInternal          ErrorKind = "INTERNAL"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Errorf builds a classified error.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapInternal classifies an unexpected storage or infrastructure
// failure, keeping the cause for logging.
func WrapInternal(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf extracts the kind of a classified error, or ErrInternal for
// anything unclassified.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
