// Package apperrors defines the error classes of polymul and the exit codes
// they map to. Configuration problems, oracle mismatches, server failures and
// API validation failures each get a type, so callers branch with errors.As
// instead of matching strings.
//
// Wrapping uses fmt.Errorf with %w; types carrying a cause implement Unwrap.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3   // a multiplier disagreed with schoolbook
	ExitErrorConfig   = 4   // invalid flags, ring or modulus
	ExitErrorCanceled = 130 // SIGINT, as shells report it
)

// ConfigError reports input the application cannot run with: a bad flag
// value, an unknown ring, an unusable modulus.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// MismatchError reports that a multiplier variant disagreed with the
// schoolbook oracle on some input. It is fatal for a benchmark sweep.
type MismatchError struct {
	// Size is the coefficient count of the operands.
	Size int
	// Variant names the disagreeing multiplier (e.g. "karatsuba_t32").
	Variant string
	// Index is the first coefficient that differs, or -1 if unknown.
	Index int
}

func (e MismatchError) Error() string {
	msg := fmt.Sprintf("result mismatch: %s disagrees with schoolbook at size %d", e.Variant, e.Size)
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (coefficient %d)", e.Index)
	}
	return msg
}

// NewMismatchError creates a MismatchError. Pass index -1 when the
// differing coefficient is unknown.
func NewMismatchError(size int, variant string, index int) error {
	return MismatchError{Size: size, Variant: variant, Index: index}
}

// ServerError is a failure of the HTTP server itself (listen, shutdown),
// as opposed to a failed request.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError. cause may be nil.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError rejects one field of an API request. The server maps it
// to 400 Bad Request.
type ValidationError struct {
	// Field is the JSON name of the offending field, e.g. "a" or "ring".
	Field   string
	Message string
	// Value is the rejected value, if worth echoing.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError. value may be nil.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError prefixes err with a formatted context message, keeping it
// reachable through errors.Is and errors.As. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from a canceled or expired
// context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
