// Package apperrors defines the error taxonomy shared by services and handlers.
//
// Services wrap one of the sentinel errors below with a user-facing message,
// e.g. fmt.Errorf("%w: title is required", apperrors.ErrValidation), and handlers
// map the sentinel to an HTTP status with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermission is returned when the caller's role does not permit the operation.
	ErrPermission = errors.New("permission denied")
	// ErrDeadlineExceeded is returned when an RSVP is submitted after the event date.
	ErrDeadlineExceeded = errors.New("rsvp deadline exceeded")
	// ErrConflict is returned when a unique attribute is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when no valid identity accompanies a request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrStore wraps failures of the underlying persistence layer.
	ErrStore = errors.New("store error")
)

// Validation builds an ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound builds an ErrNotFound naming the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, entity)
}

// Store wraps err as an ErrStore. The cause stays in the chain for logging.
func Store(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// Message returns the client-safe part of err: the text after the sentinel prefix.
// Store errors and unclassified errors never expose their detail.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrStore) {
		return "internal server error"
	}
	for _, sentinel := range []error{
		ErrValidation, ErrNotFound, ErrPermission, ErrDeadlineExceeded,
		ErrConflict, ErrInvalidCredentials, ErrUnauthenticated,
	} {
		if !errors.Is(err, sentinel) {
			continue
		}
		if msg, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok {
			return msg
		}
		return sentinel.Error()
	}
	return "internal server error"
}
