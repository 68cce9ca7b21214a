// Package sasfmterr defines the Argument/State/IO error taxonomy of
// spec.md §7, wrapped with github.com/pkg/errors so a failed write keeps
// its originating stack alongside the taxonomy kind.
package sasfmterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ArgumentError marks a bad caller input: a null required input, an
// empty variable list, a length out of range, a UTF-8 byte-length
// exceeding a fixed cap, a format/variable-type mismatch, a wrong-arity
// observation, or a mis-typed observation value. Argument errors never
// corrupt internal state — a subsequent valid call must succeed.
type ArgumentError struct {
	msg   string
	cause error
}

func (e *ArgumentError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("sas7bdat: argument error: %s: %v", e.msg, e.cause)
	}
	return fmt.Sprintf("sas7bdat: argument error: %s", e.msg)
}

func (e *ArgumentError) Unwrap() error { return e.cause }

// Argument builds an ArgumentError, annotated with a stack via pkg/errors.
func Argument(msg string) error {
	return errors.WithStack(&ArgumentError{msg: msg})
}

// Argumentf builds a formatted ArgumentError.
func Argumentf(format string, args ...interface{}) error {
	return errors.WithStack(&ArgumentError{msg: fmt.Sprintf(format, args...)})
}

// WrapArgument wraps an existing error as an ArgumentError.
func WrapArgument(cause error, msg string) error {
	return errors.WithStack(&ArgumentError{msg: msg, cause: cause})
}

// StateError marks an internal-limit violation: page-sequence exhaustion
// (>32767 pages) or too many variables (> math.MaxInt16).
type StateError struct {
	msg   string
	cause error
}

func (e *StateError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("sas7bdat: state error: %s: %v", e.msg, e.cause)
	}
	return fmt.Sprintf("sas7bdat: state error: %s", e.msg)
}

func (e *StateError) Unwrap() error { return e.cause }

// State builds a StateError, annotated with a stack via pkg/errors.
func State(msg string) error {
	return errors.WithStack(&StateError{msg: msg})
}

// Statef builds a formatted StateError.
func Statef(format string, args ...interface{}) error {
	return errors.WithStack(&StateError{msg: fmt.Sprintf(format, args...)})
}

// IOError marks a failure surfaced by the Sink.
type IOError struct {
	cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("sas7bdat: io error: %v", e.cause)
}

func (e *IOError) Unwrap() error { return e.cause }

// WrapIO wraps a Sink error as an IOError, with a stack via pkg/errors.
func WrapIO(cause error) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&IOError{cause: cause})
}
