// Package status defines the outcome taxonomy shared by descriptor
// validation, kernel configuration and primitive construction.
package status

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Outcomes other than success. Callers compare with errors.Is.
var (
	// ErrUnimplemented means this implementation cannot serve the descriptor.
	// It is a soft failure: another implementation may.
	ErrUnimplemented = stderrors.New("unimplemented")

	// ErrInvalidArgument means the descriptor or a bound argument is malformed.
	ErrInvalidArgument = stderrors.New("invalid arguments")

	// ErrOutOfResources means kernel instantiation could not obtain what it needed.
	ErrOutOfResources = stderrors.New("out of resources")
)

// Unimplemented returns ErrUnimplemented annotated with a reason.
func Unimplemented(format string, args ...any) error {
	return errors.Wrapf(ErrUnimplemented, format, args...)
}

// InvalidArgument returns ErrInvalidArgument annotated with a reason.
func InvalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// OutOfResources returns ErrOutOfResources annotated with a reason.
func OutOfResources(format string, args ...any) error {
	return errors.Wrapf(ErrOutOfResources, format, args...)
}

// IsUnimplemented reports whether err is a soft "try another implementation" failure.
func IsUnimplemented(err error) bool {
	return errors.Is(err, ErrUnimplemented)
}
