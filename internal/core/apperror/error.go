// Package apperror provides structured error handling for the ledger core.
// Every failure that crosses a component boundary is an AppError so callers
// can distinguish caller bugs, transient storage trouble, and derivation bugs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. The three ledger failure classes plus the usual transport ones.
const (
	// CodeValidation marks a caller contract breach: documents must be
	// validated by their own module before reaching the core.
	CodeValidation = "VALIDATION_ERROR"

	// CodeStorage marks a transient storage failure. The whole document
	// write is safe to retry.
	CodeStorage = "STORAGE_ERROR"

	// CodeConsistency marks a derivation bug (e.g. an amount that does not
	// match quantity × rate). Must be fatal and loud, never corrected.
	CodeConsistency = "CONSISTENCY_ERROR"

	CodeNotFound = "NOT_FOUND"
	CodeInternal = "INTERNAL_ERROR"
)

// AppError is the standard error type for the core.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, ids, quantities)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the whole unit of work may succeed.
// Only storage failures qualify.
func (e *AppError) Retryable() bool {
	return e.Code == CodeStorage
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewStorage creates a storage error (503) wrapping the driver cause.
func NewStorage(op string, err error) *AppError {
	return &AppError{
		Code:       CodeStorage,
		Message:    fmt.Sprintf("storage operation failed: %s", op),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewConsistency creates a consistency error (500). Indicates a derivation
// bug; the enclosing transaction must abort.
func NewConsistency(message string) *AppError {
	return &AppError{
		Code:       CodeConsistency,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal error (500, details hidden from clients).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helpers ---

// AsAppError extracts AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns the appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error carries CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsConsistency checks if error carries CodeConsistency.
func IsConsistency(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeConsistency
	}
	return false
}

// IsValidation checks if error carries CodeValidation.
func IsValidation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeValidation
	}
	return false
}
