package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeSessionNotFound         = "SESSION_NOT_FOUND"
	ErrCodeSessionClosed           = "SESSION_CLOSED"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeInvalidQuality          = "INVALID_QUALITY"
	ErrCodeConcurrencyExhausted    = "CONCURRENCY_EXHAUSTED"
	ErrCodeCollaboratorUnavailable = "COLLABORATOR_UNAVAILABLE"
	ErrCodeInternal                = "INTERNAL_ERROR"
	ErrCodeBadRequest              = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "SESSION_CLOSED", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewSessionNotFoundError signals a submit against a session that does not exist.
func NewSessionNotFoundError(sessionID string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionNotFound,
		Message: fmt.Sprintf("exam session not found: %s", sessionID),
		Status:  404,
	}
}

// NewSessionClosedError signals a submit against an already-completed session.
// Completed sessions are immutable; the caller holds a stale reference.
func NewSessionClosedError(sessionID string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionClosed,
		Message: fmt.Sprintf("exam session already completed: %s", sessionID),
		Status:  409,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInvalidQualityError rejects an out-of-range review quality score.
func NewInvalidQualityError(quality int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidQuality,
		Message: fmt.Sprintf("quality must be between 0 and 5, got %d", quality),
		Status:  400,
	}
}

// NewConcurrencyExhaustedError signals that the internal re-read/recompute/re-write
// loop gave up after repeated version conflicts on the same record.
func NewConcurrencyExhaustedError(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConcurrencyExhausted,
		Message: fmt.Sprintf("too many concurrent writes on %s", resource),
		Status:  409,
		Err:     err,
	}
}

// NewCollaboratorUnavailableError wraps a failure of an external dependency
// (question bank, etc.) so callers can tell "system degraded" from "bad input".
func NewCollaboratorUnavailableError(collaborator string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeCollaboratorUnavailable,
		Message: fmt.Sprintf("%s unavailable", collaborator),
		Status:  503,
		Err:     err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
