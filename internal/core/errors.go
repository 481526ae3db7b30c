// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// ErrDataUnavailable: no usable price or sentiment data for a symbol.
	// Recoverable at the batch level; the dataset build skips and continues.
	ErrDataUnavailable = &Error{Code: "DATA_UNAVAILABLE", Message: "no usable data for symbol"}

	// ErrInsufficientHistory: not enough bars to fill the indicator warm-up
	// windows. Fatal to the single inference request only.
	ErrInsufficientHistory = &Error{Code: "INSUFFICIENT_HISTORY", Message: "not enough history for indicators"}

	// ErrUpstreamUnavailable: a provider returned nothing. Fatal to the request.
	ErrUpstreamUnavailable = &Error{Code: "UPSTREAM_UNAVAILABLE", Message: "upstream provider returned no data"}

	// ErrSchemaMismatch: a feature row diverged from the feature schema.
	// A programming invariant violation; must never occur in correct code.
	ErrSchemaMismatch = &Error{Code: "SCHEMA_MISMATCH", Message: "feature row does not match schema"}

	// Model errors
	ErrModelFailed = &Error{Code: "MODEL_FAILED", Message: "model call failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
