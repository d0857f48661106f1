package apperrors

import "errors"

// Common errors
var (
	ErrNotFound = errors.New("not found")

	// Authentication errors
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Entity specific not-found errors. All of them match ErrNotFound with errors.Is.
var (
	ErrUserNotFound         = NewNotFoundError("user not found")
	ErrAcademicYearNotFound = NewNotFoundError("academic year not found")
	ErrUnitNotFound         = NewNotFoundError("unit not found")
	ErrResourceNotFound     = NewNotFoundError("resource not found")
	ErrEventNotFound        = NewNotFoundError("event not found")
	ErrCategoryNotFound     = NewNotFoundError("unknown resource category")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	// Fields holds per-field messages for validation errors, keyed by form field name
	Fields map[string]string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewForbiddenError creates a permission error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// NewFieldErrors creates a validation error from a set of field messages
func NewFieldErrors(fields map[string]string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: ErrValidationFailed.Error(),
		Fields:  fields,
	}
}

// FieldErrors extracts field messages from a validation error, or nil
func FieldErrors(err error) map[string]string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Fields != nil {
		return ce.Fields
	}
	return nil
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
