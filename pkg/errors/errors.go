// Package errors provides structured error types for phylotree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across all CLI commands
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into three families:
//   - PARSE_*: malformed tree text (unbalanced brackets, bad tokens)
//   - VALIDATION_*: structurally sound input that violates a constraint
//     (tree too small, missing CSV columns, bad color values)
//   - TOOL_*: failures of the external alignment/inference binaries
//
// Parse and validation errors abort a run; warnings (see warnings.go)
// are collected and reported after processing completes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParseTree, "unbalanced brackets at offset %d", off)
//	if errors.Is(err, errors.ErrCodeParseTree) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeToolFailed, origErr, "iqtree exited abnormally")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Tree text parse errors
	ErrCodeParseTree     Code = "PARSE_TREE"
	ErrCodeDuplicateLeaf Code = "PARSE_DUPLICATE_LEAF"

	// Validation errors
	ErrCodeTreeTooSmall  Code = "VALIDATION_TREE_TOO_SMALL"
	ErrCodeInvalidCSV    Code = "VALIDATION_INVALID_CSV"
	ErrCodeInvalidColor  Code = "VALIDATION_INVALID_COLOR"
	ErrCodeGroupMismatch Code = "VALIDATION_GROUP_MISMATCH"
	ErrCodeInvalidSpec   Code = "VALIDATION_INVALID_SPEC"
	ErrCodeInvalidStyle  Code = "VALIDATION_INVALID_STYLE"
	ErrCodeInvalidFormat Code = "VALIDATION_INVALID_FORMAT"
	ErrCodeInvalidInput  Code = "VALIDATION_INVALID_INPUT"

	// External tool errors
	ErrCodeToolNotFound Code = "TOOL_NOT_FOUND"
	ErrCodeToolFailed   Code = "TOOL_FAILED"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsParse reports whether err is any parse-family error.
func IsParse(err error) bool {
	switch GetCode(err) {
	case ErrCodeParseTree, ErrCodeDuplicateLeaf:
		return true
	}
	return false
}

// IsValidation reports whether err is any validation-family error.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeTreeTooSmall, ErrCodeInvalidCSV, ErrCodeInvalidColor,
		ErrCodeGroupMismatch, ErrCodeInvalidSpec, ErrCodeInvalidStyle,
		ErrCodeInvalidFormat, ErrCodeInvalidInput:
		return true
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
