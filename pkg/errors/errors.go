package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so callers can match kinds
// with errors.Is regardless of message overrides.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound               = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden              = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized           = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict               = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation             = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal               = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss              = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInvalidTransition      = New("INVALID_TRANSITION", http.StatusConflict, "invalid status transition")
	ErrTerminalState          = New("TERMINAL_STATE", http.StatusConflict, "record is in a terminal state")
	ErrTooLate                = New("TOO_LATE", http.StatusConflict, "appointment can no longer be rescheduled")
	ErrPastDate               = New("PAST_DATE", http.StatusBadRequest, "date must be in the future")
	ErrUnknownDurationCode    = New("UNKNOWN_DURATION_CODE", http.StatusBadRequest, "unknown duration code")
	ErrInvalidRange           = New("INVALID_RANGE", http.StatusBadRequest, "end time must be after start time")
	ErrDuplicateSlot          = New("DUPLICATE_SLOT", http.StatusConflict, "a session already exists at this time")
	ErrInvalidDay             = New("INVALID_DAY", http.StatusBadRequest, "invalid day name")
	ErrUnknownDay             = New("UNKNOWN_DAY", http.StatusBadRequest, "day is outside the active plan")
	ErrMissingAppointmentLink = New("MISSING_APPOINTMENT_LINK", http.StatusConflict, "schedule has no linked appointment")
	ErrDependencyTimeout      = New("DEPENDENCY_TIMEOUT", http.StatusGatewayTimeout, "dependency timed out")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrDependencyTimeout.Code, ErrDependencyTimeout.Status, ErrDependencyTimeout.Message)
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying structured details.
func WithDetails(err *Error, message string, details interface{}) *Error {
	clone := Clone(err, message)
	if clone != nil {
		clone.Details = details
	}
	return clone
}

// Internal wraps err as an internal error unless it is already typed or the
// context deadline was hit, in which case it is reported as a dependency timeout.
func Internal(err error, message string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrDependencyTimeout.Code, ErrDependencyTimeout.Status, message)
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}
