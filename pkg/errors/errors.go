// Package errors augments the standard errors with sentinel values
// that can be wrapped around a cause and still be matched with Is().
//
// Wrapping never mutates the sentinel: each call to Wrap returns a new
// error that reports the sentinel as its kind.
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New sentinel Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a sentinel error, possibly wrapping a cause.
type Error struct {
	msg  string
	err  error
	kind *Error
}

// Error message, followed by the cause when there is one
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a cause into a new error of the same kind
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, kind: e.root()}
}

// Wrapf wraps a formatted cause into a new error of the same kind
func (e *Error) Wrapf(format string, args ...interface{}) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || e.root() == t
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}
	return e
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
