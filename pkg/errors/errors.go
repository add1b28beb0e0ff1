// Package errors provides structured error types for the card renderer.
//
// Errors carry a machine-readable [Code] so the HTTP surface and the CLI can
// tell the three failure families apart:
//
//   - INVALID_* / PAYLOAD_*: problems with the request at the service boundary
//   - CONFIG_*: invalid deployment configuration, fatal at construction time
//   - RENDER_*: the rendering backend could not produce an image
//
// Odd payload content is never an error: the normalizer in pkg/card degrades
// every malformed field to a neutral default instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfigInvalid, "chunk width must be >= 1, got %d", w)
//	if errors.IsRenderError(err) {
//	    // backend problem, not the caller's data
//	}
//
//	err := errors.Wrap(errors.ErrCodeRenderUnavailable, origErr, "launch chrome")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Request boundary errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"

	// Configuration errors
	ErrCodeConfigInvalid Code = "CONFIG_INVALID"

	// Rendering backend errors
	ErrCodeRenderFailed      Code = "RENDER_FAILED"
	ErrCodeRenderOverflow    Code = "RENDER_OVERFLOW"
	ErrCodeRenderUnavailable Code = "RENDER_UNAVAILABLE"
	ErrCodeRenderTimeout     Code = "RENDER_TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// renderPrefix marks every code in the rendering family.
const renderPrefix = "RENDER_"

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRenderError reports whether err belongs to the RENDER_* family.
func IsRenderError(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), renderPrefix)
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
