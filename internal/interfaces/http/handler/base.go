// Package handler holds the gin handlers of the /api/v1 routes. Each route
// dispatches on the ?action= query parameter.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/logger"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/dto"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessMessage sends a 200 response with a message and optional data
func (h *BaseHandler) SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message, data))
}

// Created sends a 201 response with a message and data
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.NewMessageResponse(message, data))
}

// HandleError renders err. Domain errors map through dto.FromDomainError;
// anything else is an internal error. Only storage failures and unknown
// errors are logged at error level.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.L(c.Request.Context())

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == shared.CodeStorageFailure {
			// the only error-level record of a storage failure; services return it unlogged
			log.Error("Storage failure",
				zap.Error(err),
				zap.NamedError("cause", errors.Unwrap(domainErr)),
				zap.Bool("transient", domainErr.Transient))
		} else {
			log.Debug("Request rejected", zap.String("code", domainErr.Code), zap.String("reason", domainErr.Message))
		}
		status, body := dto.FromDomainError(domainErr)
		c.JSON(status, body)
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred"))
}

// BindingError renders a failed ShouldBind* call as VALIDATION_ERROR
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	h.HandleError(c, middleware.BindingError(err))
}

// UnknownAction answers an ?action= value the route does not implement
func (h *BaseHandler) UnknownAction(c *gin.Context) {
	h.HandleError(c, shared.NewValidationError("Invalid action"))
}

// currentUser returns the session user. Protected routes run behind
// SessionAuth, so a miss means the route was wired without it.
func (h *BaseHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedBody)
	}
	return id, ok
}

// bindOptionalJSON binds a JSON body that may be absent entirely
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseUUIDQuery reads a required uuid query parameter
func parseUUIDQuery(c *gin.Context, key string) (uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return uuid.Nil, shared.NewDomainErrorWithDetails(shared.CodeValidation, "Invalid parameters", key+": This field is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.NewDomainErrorWithDetails(shared.CodeValidation, "Invalid parameters", key+": Invalid UUID format")
	}
	return id, nil
}
