package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the stage of the run that produced it.
type Kind string

const (
	Configuration Kind = "configuration"
	Network       Kind = "network"
	Parse         Kind = "parse"
	IO            Kind = "io"
)

// Error is a fatal run failure. Op names the step that failed and may be empty.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Configf builds a Configuration error from a message.
func Configf(format string, args ...any) *Error {
	return &Error{Kind: Configuration, Err: fmt.Errorf(format, args...)}
}

// Parsef builds a Parse error from a message.
func Parsef(format string, args ...any) *Error {
	return &Error{Kind: Parse, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
