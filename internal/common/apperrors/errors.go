package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// AppError is the typed error carried across the sync and analytics layer.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewValidationError builds a fail-fast validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewBackendError wraps a remote tier failure. Sync tiers treat it as
// "advance to the next tier".
func NewBackendError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeBackendUnavailable, fmt.Sprintf("Backend operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewStorageError wraps a local fallback store failure.
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageUnavailable, fmt.Sprintf("Fallback store operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewConflictError(resource, reason string) *AppError {
	return New(ErrCodeConflict, fmt.Sprintf("Conflict with %s: %s", resource, reason)).
		WithDetail("resource", resource).
		WithDetail("reason", reason)
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsConflict reports whether err is a conflict, either an explicit
// AppError or a raw postgres unique-constraint violation.
func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict) || IsUniqueViolation(err)
}

// IsUniqueViolation reports whether err is a postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
