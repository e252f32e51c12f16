// Package errs defines the error kinds surfaced by netplan-parser.
//
// Structural problems with the configuration documents are fatal and
// carry one of these kinds so callers (the CLI, the HTTP handler) can
// map them to exit codes or status codes without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the high level class of an error.
type Kind string

const (
	// KindNotFound indicates an explicitly requested file or interface does not exist.
	KindNotFound Kind = "not_found"
	// KindMalformedDocument indicates a document does not have the netplan shape.
	KindMalformedDocument Kind = "malformed_document"
	// KindParse indicates the markup could not be deserialized at all.
	KindParse Kind = "parse"
	// KindInvalid indicates a bad option or argument supplied by the caller.
	KindInvalid Kind = "invalid"
)

// Error wraps an underlying error and tags it with a Kind.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

// Unwrap lets errors.Is/As reach the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Err: err}
}

// Newf creates an error of the given kind from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first tagged error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// NotFound is shorthand for Newf(KindNotFound, ...).
func NotFound(format string, args ...any) error {
	return Newf(KindNotFound, format, args...)
}

// Malformed is shorthand for Newf(KindMalformedDocument, ...).
func Malformed(format string, args ...any) error {
	return Newf(KindMalformedDocument, format, args...)
}

// Invalid is shorthand for Newf(KindInvalid, ...).
func Invalid(format string, args ...any) error {
	return Newf(KindInvalid, format, args...)
}
