// Package errors provides coded domain errors for tagandtake.
//
// Usage:
//
//	// Return coded errors for bad input
//	if outDir == "" {
//	    return errors.Validation("--out is required")
//	}
//
//	// Attach field-level details
//	return errors.Validation("validation failed").WithDetails(fields)
//
//	// In callers - check with errors.Is; shape errors from the lifecycle
//	// package match ErrMalformedListing too
//	if errors.Is(err, errors.ErrMalformedListing) {
//	    ...
//	}
//
//	// Or pick the process exit status from the chain
//	os.Exit(errors.ExitCode(err))
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeMalformedListing Code = "MALFORMED_LISTING"
	CodeInvalidListing   Code = "INVALID_LISTING"
	CodeConfig           Code = "CONFIG"
	CodeInternal         Code = "INTERNAL"
)

// Exit codes follow sysexits(3) so shell callers can tell input problems from bugs.
const (
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitSoftware = 70
	exitConfig   = 78
)

// ExitCode returns the process exit status for an error code.
func (c Code) ExitCode() int {
	switch c {
	case CodeValidation:
		return exitUsage
	case CodeMalformedListing, CodeInvalidListing:
		return exitDataErr
	case CodeNotFound:
		return exitNoInput
	case CodeConfig:
		return exitConfig
	default:
		return exitSoftware
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// ExitCode returns the process exit status for this error.
func (e *Error) ExitCode() int {
	return e.Code.ExitCode()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
	ErrMalformedListing = &Error{Code: CodeMalformedListing, Message: "malformed listing"}
	ErrInvalidListing   = &Error{Code: CodeInvalidListing, Message: "invalid listing"}
	ErrConfig           = &Error{Code: CodeConfig, Message: "invalid configuration"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Configf creates a configuration error with formatted message.
func Configf(format string, args ...any) *Error {
	return &Error{Code: CodeConfig, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// ExitCoder is implemented by errors that carry their own exit status.
type ExitCoder interface {
	ExitCode() int
}

// ExitCode returns the exit status for any error: the status of the first
// ExitCoder in the chain, or the internal-error status otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return exitSoftware
}

// CodeOf returns the code of the first coded error in the chain. Errors that
// match a sentinel by Is report that sentinel's code. Anything else is
// CodeInternal.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	for _, sentinel := range []*Error{ErrMalformedListing, ErrInvalidListing, ErrValidation, ErrNotFound, ErrConfig} {
		if errors.Is(err, sentinel) {
			return sentinel.Code
		}
	}
	return CodeInternal
}
