package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	identityapp "github.com/Geogebrd/scaond-hand-platform/internal/application/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// AuthService is the part of identityapp.AuthService the handler needs
type AuthService interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.UserResponse, error)
	Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Check(ctx context.Context, token string) (*identityapp.CheckResponse, error)
}

// AuthHandler serves /auth: register, login, logout and check
type AuthHandler struct {
	BaseHandler
	auth    AuthService
	session config.SessionConfig
	cookie  config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, session config.SessionConfig, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		session: session,
		cookie:  cookie,
	}
}

// Post dispatches POST /auth?action=register|login|logout
func (h *AuthHandler) Post(c *gin.Context) {
	switch c.Query("action") {
	case "register":
		h.register(c)
	case "login":
		h.login(c)
	case "logout":
		h.logout(c)
	default:
		h.UnknownAction(c)
	}
}

// Get dispatches GET /auth?action=check|logout
func (h *AuthHandler) Get(c *gin.Context) {
	switch c.Query("action") {
	case "check":
		h.check(c)
	case "logout":
		h.logout(c)
	default:
		h.UnknownAction(c)
	}
}

func (h *AuthHandler) register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Registration successful", user)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))
	h.SuccessMessage(c, "Login successful", result.User)
}

func (h *AuthHandler) logout(c *gin.Context) {
	token, _ := c.Cookie(h.session.CookieName)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	h.SuccessMessage(c, "Logged out", nil)
}

func (h *AuthHandler) check(c *gin.Context) {
	token, _ := c.Cookie(h.session.CookieName)
	resp, err := h.auth.Check(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// setSessionCookie writes the HttpOnly session cookie; maxAge < 0 deletes it
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(h.session.CookieName, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
