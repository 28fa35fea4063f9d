package dto

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
)

// Response is the body of every API response.
// Success: {"success":true,"message"?,"data"?}
// Failure: {"success":false,"error":<message>,"code":<kind>,"details"?}
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse creates a success response carrying a user-facing message
func NewMessageResponse(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

// NewErrorResponseWithDetails creates an error response with details
func NewErrorResponseWithDetails(code, message string, details any) Response {
	resp := NewErrorResponse(code, message)
	resp.Details = details
	return resp
}

// FromDomainError renders a domain error together with its HTTP status.
// MISSING_ADDRESS keeps the literal code in "error" because the browser
// client branches on it; the human readable list goes to "details".
func FromDomainError(err *shared.DomainError) (int, Response) {
	status := StatusFor(err)
	if err.Code == shared.CodeMissingAddress {
		return status, NewErrorResponseWithDetails(err.Code, shared.CodeMissingAddress, err.Message)
	}
	if len(err.Details) > 0 {
		return status, NewErrorResponseWithDetails(err.Code, err.Message, err.Details)
	}
	return status, NewErrorResponse(err.Code, err.Message)
}

// UnauthorizedBody is the exact body returned to unauthenticated calls of protected routes
var UnauthorizedBody = map[string]string{"error": "Unauthorized"}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// IDQuery is the ?id= parameter of the single-resource GET routes
type IDQuery struct {
	ID string `form:"id" binding:"omitempty,uuid"`
}
