// Package dErrors provides coded domain errors shared across modules.
//
// Services return these instead of raw errors so transport layers can map
// failures to responses without inspecting error strings. Stores return
// sentinel errors (pkg/platform/sentinel) and services wrap them into coded
// errors at the module boundary.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and tests.
type Code string

const (
	// CodeValidation marks missing or malformed required input
	// (empty title, blank actor). Recoverable by the caller.
	CodeValidation Code = "validation"

	// CodeInvalidInput marks an input that failed parsing at a trust
	// boundary (non-UUID id, unknown enum value).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a request the transport layer could not decode.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a reference to a record that does not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a request that violates a uniqueness or state
	// invariant (duplicate vote, illegal status transition).
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks a broken model invariant detected at
	// construction time.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnavailable marks a dependency outage (storage, broker).
	CodeUnavailable Code = "unavailable"

	// CodeTimeout marks an operation aborted by deadline or cancellation.
	CodeTimeout Code = "timeout"

	// CodeInternal marks unexpected failures. Never surfaced verbatim.
	CodeInternal Code = "internal"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is / errors.Unwrap.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// Is is shorthand for HasCode, matching the call sites that read better as
// a predicate on the error itself.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
