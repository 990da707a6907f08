package services

import (
	"errors"
	"fmt"

	"github.com/upb/rest-api-modernized/repositories"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeUnavailable  ErrorType = "unavailable"
)

// DomainError represents a structured error with additional context.
// Message is safe to return to clients.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrProjectNotFound       = NewDomainError(ErrorTypeNotFound, "Project not found.", nil)
	ErrTaskNotFound          = NewDomainError(ErrorTypeNotFound, "Task not found.", nil)
	ErrVulnerabilityNotFound = NewDomainError(ErrorTypeNotFound, "Vulnerability not found.", nil)

	// Validation Errors
	ErrInvalidInput = NewDomainError(ErrorTypeValidation, "Request validation failed.", nil)

	// Authorization Errors
	ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "Authentication required.", nil)

	// Permission Errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "Access forbidden.", nil)

	// Conflict Errors
	ErrIntegrityViolation = NewDomainError(ErrorTypeConflict, "A database constraint was violated.", nil)

	// Internal Errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "An unexpected error occurred.", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "A database error occurred.", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// IsUnavailableError checks if an error is an unavailable error
func IsUnavailableError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnavailable
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// FromRepository translates a repository error into a DomainError.
// repositories.ErrNotFound becomes notFound, integrity violations become conflicts,
// and anything else is reported as a database error.
func FromRepository(err error, notFound *DomainError) error {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound) && notFound != nil:
		return NewDomainError(ErrorTypeNotFound, notFound.Message, err)
	case errors.Is(err, repositories.ErrConflict):
		return NewDomainError(ErrorTypeConflict, ErrIntegrityViolation.Message, err)
	default:
		return NewDomainError(ErrorTypeInternal, ErrDatabaseError.Message, err)
	}
}
