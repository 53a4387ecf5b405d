/*Package errors defines the error handling used throughout 0-Flash.
It provides errors that keep their original error as the cause,
more context can be given to an error by wrapping it with an additional message.
The underlying error (cause) is preserved and can be fetched (and then checked)
with the Cause function.
*/
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// New returns an error with provided message
func New(msg string) error {
	return errors.New(msg)
}

// Newf formats an error according to a format specifier
func Newf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Wrap returns an error that is annotated with provided message
// If error is nil, Wrap returns nil
func Wrap(err error, msg string) error {
	return errors.WithMessage(err, msg)
}

// Wrapf returns an error that is annotated with provided message
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	return errors.WithMessage(err, message)
}

// Cause returns the underlying cause of the error if possible.
// If the error does not implement `Cause() error` it returns the full error
func Cause(err error) error {
	return errors.Cause(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// ErrorSlice collects multiple errors,
// and can be returned as a single error.
// The zero value is ready to use.
type ErrorSlice struct {
	errs []error
}

// Add an error to the slice, nil errors are ignored.
func (slice *ErrorSlice) Add(err error) {
	if err == nil {
		return
	}
	slice.errs = append(slice.errs, err)
}

// Len returns the amount of errors collected.
func (slice *ErrorSlice) Len() int {
	return len(slice.errs)
}

// Errors returns the collected errors.
func (slice *ErrorSlice) Errors() []error {
	return slice.errs
}

// AsError returns nil in case no errors were collected,
// and the slice itself otherwise.
func (slice *ErrorSlice) AsError() error {
	if slice == nil || len(slice.errs) == 0 {
		return nil
	}
	return slice
}

// Error implements error.Error
func (slice *ErrorSlice) Error() string {
	var str strings.Builder
	for _, err := range slice.errs {
		str.WriteString(err.Error())
		str.WriteString(";")
	}
	return str.String()
}
