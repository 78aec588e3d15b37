// Package errors is the project-wide error helper. It keeps the call
// shape of the standard library (New, Errorf, Is, As, Unwrap) while
// delegating stack capture to github.com/go-errors/errors, so that any
// error created here carries the stack of its origin.
package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New returns an error with the supplied message and a captured stack.
func New(text string) error {
	return goerrors.Wrap(stderrors.New(text), 1)
}

// Errorf formats according to a format specifier and returns an error
// with a captured stack. The %w verb is honored, so wrapped targets
// remain reachable via Is and As.
func Errorf(format string, args ...interface{}) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), 1)
}

// Wrap annotates err with msg and a captured stack. A nil err yields nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(fmt.Errorf("%s: %w", msg, err), 1)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err, if available.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Stack returns the captured stack trace of err, or an empty string
// when err carries none.
func Stack(err error) string {
	var ge *goerrors.Error
	if stderrors.As(err, &ge) {
		return string(ge.Stack())
	}
	return ""
}
