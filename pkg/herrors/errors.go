// Package herrors provides structured error types shared across the
// gatherer, indexer, and filter engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the daemon, CLI, and library API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - ERR_FILTER_*: Filter engine compile/runtime failures
//   - ERR_QUEUE_*, ERR_HOST_*: Gatherer scheduler admission/quota failures
//   - ERR_FETCH_*: Per-URL download outcomes (§7 soft/hard taxonomy)
//   - ERR_PIPELINE_*: Indexer stage inconsistencies
//   - ERR_STORE_*: Storage-layer failures (bucket, url-db, md5-db)
//   - ERR_INTERNAL: Unexpected internal errors
//
// # Usage
//
//	err := herrors.New(herrors.ErrCodeQueueFull, "host quota exceeded: %s", host)
//	if herrors.Is(err, herrors.ErrCodeQueueFull) {
//	    // drop the URL per §4.1 enqueue
//	}
package herrors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Filter engine errors (Component C).
	ErrCodeFilterParse   Code = "ERR_FILTER_PARSE"
	ErrCodeFilterRuntime Code = "ERR_FILTER_RUNTIME"
	ErrCodeFilterVerdict Code = "ERR_FILTER_VERDICT"

	// Gatherer scheduler errors (Component A).
	ErrCodeQueueFull  Code = "ERR_QUEUE_FULL"
	ErrCodeHostQuota  Code = "ERR_HOST_QUOTA"
	ErrCodeBadURL     Code = "ERR_BAD_URL"
	ErrCodeShutdown   Code = "ERR_SHUTDOWN"

	// Per-URL fetch outcomes (§7 soft/hard taxonomy).
	ErrCodeFetchTransient Code = "ERR_FETCH_TRANSIENT"
	ErrCodeFetchFatal     Code = "ERR_FETCH_FATAL"

	// Indexer pipeline errors (Component B).
	ErrCodePipelineInconsistency Code = "ERR_PIPELINE_INCONSISTENCY"
	ErrCodeFormatMismatch        Code = "ERR_FORMAT_MISMATCH"

	// Storage layer errors.
	ErrCodeStore Code = "ERR_STORE"

	// Catch-all.
	ErrCodeInternal Code = "ERR_INTERNAL"
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
