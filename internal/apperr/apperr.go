// Package apperr defines the error kinds shared across services so HTTP
// handlers can map them to status codes without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated covers missing, malformed, invalid and expired
	// credentials alike.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but the role or
	// ownership check failed.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput means the caller must correct the request and resubmit.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")
)

// Invalidf wraps ErrInvalidInput with a descriptive reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// Forbiddenf wraps ErrForbidden with a descriptive reason.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrForbidden}, args...)...)
}

// Message strips the sentinel prefix for client-facing output.
func Message(err error) string {
	for _, sentinel := range []error{ErrUnauthenticated, ErrForbidden, ErrInvalidInput, ErrNotFound} {
		if errors.Is(err, sentinel) {
			msg := err.Error()
			prefix := sentinel.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
