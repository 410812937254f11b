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
	// Input errors
	ErrInvalidInput   = &Error{Code: "INVALID_INPUT", Message: "invalid analysis input"}
	ErrNoData         = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrTickerNotFound = &Error{Code: "TICKER_NOT_FOUND", Message: "ticker not found"}

	// Engine errors
	ErrAnalyzerMissing = &Error{Code: "ANALYZER_MISSING", Message: "no analyzer registered for category"}

	// Payload errors
	ErrDecodeFailed = &Error{Code: "DECODE_FAILED", Message: "payload decoding failed"}

	// Storage errors
	ErrCacheFailed   = &Error{Code: "CACHE_FAILED", Message: "cache operation failed"}
	ErrStorageFailed = &Error{Code: "STORAGE_FAILED", Message: "storage operation failed"}
	ErrObjectMissing = &Error{Code: "OBJECT_MISSING", Message: "object not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// API errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}
)
