package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientCredits = NewDomainError("INSUFFICIENT_CREDITS", "Not enough SMS credits")
	ErrEmailUnavailable    = NewDomainError("EMAIL_UNAVAILABLE", "Email delivery is not configured")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "The record was changed by another request")
)

// NotFound returns a not-found error naming the missing resource
func NotFound(resource string) *DomainError {
	return NewDomainError("NOT_FOUND", resource+" not found")
}

// ConcurrencyConflict reports a save based on a stale copy of resource
func ConcurrencyConflict(resource string) *DomainError {
	return NewDomainError("CONCURRENCY_CONFLICT", resource+" was changed by another request, reload and retry")
}

// Forbidden returns a forbidden error with a specific reason
func Forbidden(message string) *DomainError {
	return NewDomainError("FORBIDDEN", message)
}

// InvalidInput returns an invalid-input error with a specific reason
func InvalidInput(message string) *DomainError {
	return NewDomainError("INVALID_INPUT", message)
}
