package common

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Infrastructure errors are never wrapped in
// an Error; they flow through as plain wrapped errors.
type Code string

const (
	CodeInvalidTransition  Code = "invalid_transition"
	CodeSchedulingConflict Code = "scheduling_conflict"
	CodeRescheduleLimit    Code = "reschedule_limit_exceeded"
	CodeBlocked            Code = "blocked"
	CodeAlreadyPending     Code = "already_pending"
	CodeNotFound           Code = "not_found"
	CodeValidation         Code = "validation"
	CodeForbidden          Code = "forbidden"
)

// Error is a coded domain error with optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a coded error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorWithDetails builds a coded error carrying structured details, e.g.
// the identities of conflicting interviews.
func NewErrorWithDetails(code Code, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// Is reports whether err is (or wraps) a domain error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, or "" for infrastructure errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
