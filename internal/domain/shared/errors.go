package shared

import "fmt"

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "resource not found")
	ErrConflict            = NewDomainError("CONFLICT", "resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "invalid input")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "operation not allowed in current state")
	ErrInsufficientFunds   = NewDomainError("INSUFFICIENT_FUNDS", "insufficient deposit balance")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "resource was modified concurrently")
	ErrInternalError       = NewDomainError("INTERNAL_ERROR", "internal error")
)

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code string) bool {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code == code
	}
	return false
}
