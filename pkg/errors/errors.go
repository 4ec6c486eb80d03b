package errors

import (
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an upstream AI or maps service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeNoProvider indicates no active AI provider could serve a request
	ErrorTypeNoProvider ErrorType = "NO_PROVIDER"

	// ErrorTypeInvalidCoordinate indicates a stored or submitted
	// latitude/longitude could not be parsed into a valid coordinate
	ErrorTypeInvalidCoordinate ErrorType = "INVALID_COORDINATE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Details []string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewValidationErrorWithDetails creates a validation error carrying
// field-level detail messages for the HTTP response body
func NewValidationErrorWithDetails(message string, details []string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewNoProviderError creates an error signalling that the dispatcher
// found no active provider for a request
func NewNoProviderError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNoProvider,
		Message: message,
	}
}

// NewInvalidCoordinateError creates an invalid coordinate error
func NewInvalidCoordinateError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidCoordinate,
		Message: message,
	}
}
