// Package errors provides structured error types for figurine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the MCP tools
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// Renderers never return errors. Absence of a figure is classified at the
// dispatch layer with [ErrCodeNotApplicable] or [ErrCodeUnknownKind] so that
// callers can map it to a dropped marker, an HTTP 422 or an HTTP 404.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownKind, "unknown diagram kind %q", kind)
//	if errors.Is(err, errors.ErrCodeUnknownKind) {
//	    // Handle unknown kind
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "failed to upload %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidSlug   Code = "INVALID_SLUG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Rendering outcomes
	ErrCodeNotApplicable Code = "NOT_APPLICABLE"
	ErrCodeUnknownKind   Code = "UNKNOWN_KIND"
	ErrCodeUnresolved    Code = "UNRESOLVED_MARKER"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeIndex   Code = "INDEX_ERROR"
	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

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

// IsAbsent reports whether err only means that no figure could be produced,
// as opposed to a failure of the surrounding machinery.
func IsAbsent(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotApplicable, ErrCodeUnknownKind, ErrCodeUnresolved:
		return true
	}
	return false
}

// Join wraps [errors.Join] so callers need only this package.
func Join(errs ...error) error { return errors.Join(errs...) }
