// Package errors provides structured error types for the mind-map editor.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the TUI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly notices for rejected editor actions
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The editor taxonomy maps one-to-one onto codes:
//   - DUPLICATE_ID: a node id is already taken
//   - UNKNOWN_NODE: an operation referenced a node that does not exist
//   - INVALID_SELECTION: the selection does not fit the action (connect needs two)
//   - CORRUPT_SNAPSHOT: a serialized snapshot could not be restored
//
// Undo or redo with nothing to do is not an error; those operations report
// a boolean instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSelection, "select two nodes to connect")
//	if errors.Is(err, errors.ErrCodeInvalidSelection) {
//	    // Show a notice
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCorruptSnapshot, origErr, "restore history entry %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph structure errors
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"
	ErrCodeUnknownNode      Code = "UNKNOWN_NODE"
	ErrCodeUnknownEdge      Code = "UNKNOWN_EDGE"
	ErrCodeInvalidSelection Code = "INVALID_SELECTION"
	ErrCodeCorruptSnapshot  Code = "CORRUPT_SNAPSHOT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
