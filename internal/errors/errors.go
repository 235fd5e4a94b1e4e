// Package errors provides structured error types for covercluster.
//
// Only conditions that stop a run get an *Error. Everything the pipeline can
// recover from (malformed lines, missing covers, dropped rectangles, broken
// images) is reported as diagnostics instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyCatalog, "no %s entities in %s", kind, path)
//	if errors.Is(err, errors.ErrCodeEmptyCatalog) {
//	    // nothing to draw
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWriteFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the fatal conditions of a run.
const (
	// Input errors
	ErrCodeDecodeFailure Code = "DECODE_FAILURE"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeEmptyCatalog  Code = "EMPTY_CATALOG"

	// Configuration errors
	ErrCodeInvalidCanvas Code = "INVALID_CANVAS"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Output errors
	ErrCodeNothingToRender Code = "NOTHING_TO_RENDER"
	ErrCodeWriteFailure    Code = "WRITE_FAILURE"
	ErrCodeOutputLocked    Code = "OUTPUT_LOCKED"

	// Tool errors
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a fatal condition tagged with a Code.
type Error struct {
	Code    Code
	Message string
	Cause   error // may be nil
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.detail()
}

// detail is the message and cause without the code.
func (e *Error) detail() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in the chain of err carries code. An outer
// coded error does not hide the code of one it wraps.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// UserMessage is err without the code prefix of its first *Error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.detail()
	}
	return err.Error()
}
