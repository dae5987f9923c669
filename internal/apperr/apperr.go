// Package apperr provides the coded error types shared by the store, the
// session state machine and the HTTP layer.
//
// Callers match on the code with errors.Is against the sentinels below, so a
// wrapped error such as fmt.Errorf("adding set: %w", apperr.Storage(err))
// still reports as ErrStorage.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies an error category.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeStorage      Code = "STORAGE_ERROR"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInvalidState Code = "INVALID_STATE"
	CodeBusy         Code = "BUSY"
)

// Error is a categorized error with an optional underlying cause.
type Error struct {
	Code      Code
	Message   string
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrStorage      = &Error{Code: CodeStorage, Message: "storage error", Retryable: true}
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInvalidState = &Error{Code: CodeInvalidState, Message: "invalid state"}
	ErrBusy         = &Error{Code: CodeBusy, Message: "another action is in progress", Retryable: true}
)

// NotFound returns a NOT_FOUND error naming the missing entity.
func NotFound(what, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", what, id)}
}

// Storage wraps a persistence failure. The action that produced it can be retried.
func Storage(cause error) *Error {
	return &Error{Code: CodeStorage, Message: "storage error", Cause: cause, Retryable: true}
}

// Validation returns a VALIDATION_ERROR with the given message.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// InvalidState returns an INVALID_STATE error with the given message.
func InvalidState(msg string) *Error {
	return &Error{Code: CodeInvalidState, Message: msg}
}

// IsRetryable reports whether err, or anything it wraps, is a retryable *Error.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
