package shared

import (
	"errors"
	"strings"
)

// Error codes form a closed set. Callers branch on Code, never on Message.
const (
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeMissingAddress      = "MISSING_ADDRESS"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeSelfPurchase        = "SELF_PURCHASE"
	CodeAlreadySold         = "ALREADY_SOLD"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeStorageFailure      = "STORAGE_FAILURE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	Transient bool     `json:"-"`
	cause     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause of a storage failure.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithDetails creates a domain error carrying detail entries.
func NewDomainErrorWithDetails(code, message string, details ...string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewStorageError wraps an infrastructure failure.
func NewStorageError(message string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeStorageFailure,
		Message: message,
		cause:   cause,
	}
}

// NewTransientStorageError wraps a failure that is worth retrying, such as a lock wait timeout.
func NewTransientStorageError(message string, cause error) *DomainError {
	return &DomainError{
		Code:      CodeStorageFailure,
		Message:   message,
		Transient: true,
		cause:     cause,
	}
}

// NewValidationError creates a VALIDATION_ERROR with the given message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a NOT_FOUND error with the given message.
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewMissingAddressError reports which shipping fields could not be resolved.
func NewMissingAddressError(missing ...string) *DomainError {
	return &DomainError{
		Code:    CodeMissingAddress,
		Message: "Missing: " + strings.Join(missing, ", "),
		Details: missing,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid parameters")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another request")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Unauthorized")
	ErrInvalidTransition   = NewDomainError(CodeInvalidTransition, "Status change not allowed")
	ErrSelfPurchase        = NewDomainError(CodeSelfPurchase, "Cannot buy your own product")
	ErrAlreadySold         = NewDomainError(CodeAlreadySold, "Product is marked as sold")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Not enough stock available")
)

// CodeOf returns the code of the first DomainError in err's chain, or "" if none.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
