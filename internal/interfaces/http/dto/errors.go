package dto

import (
	"net/http"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
)

// Transport-level codes that never leave the domain as DomainError
const (
	// ErrCodeInternal is used for panics and errors without a domain code
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeRateLimited is used when a client exceeds its request budget
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the body exceeds http.max_body_size
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:     http.StatusBadRequest,
	shared.CodeMissingAddress: http.StatusBadRequest,

	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeNotFound:     http.StatusNotFound,

	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeSelfPurchase:      http.StatusUnprocessableEntity,
	shared.CodeAlreadySold:       http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition: http.StatusUnprocessableEntity,

	shared.CodeStorageFailure: http.StatusInternalServerError,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusFor returns the HTTP status of a domain error. Transient storage
// failures are reported as 503 so clients know a retry may succeed.
func StatusFor(err *shared.DomainError) int {
	if err.Code == shared.CodeStorageFailure && err.Transient {
		return http.StatusServiceUnavailable
	}
	return GetHTTPStatus(err.Code)
}
