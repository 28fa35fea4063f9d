package handler

import (
	"context"

	identityapp "github.com/Geogebrd/scaond-hand-platform/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettingsService is the part of identityapp.SettingsService the handler needs
type SettingsService interface {
	Get(ctx context.Context, userID uuid.UUID) (*identityapp.SettingsResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req identityapp.UpdateSettingsRequest) (*identityapp.SettingsResponse, error)
}

// SettingsHandler serves /settings, the shipping profile used as checkout fallback
type SettingsHandler struct {
	BaseHandler
	settings SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the profile
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	profile, err := h.settings.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Post replaces the profile's shipping fields
func (h *SettingsHandler) Post(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req identityapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	profile, err := h.settings.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Profile updated", profile)
}
