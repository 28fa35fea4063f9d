package middleware

import (
	"errors"
	"net/http"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/logger"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session context keys
const (
	UserIDKey   = "session_user_id"
	UsernameKey = "session_username"
)

// SessionAuth resolves the session cookie and stores the user in the gin
// context. Requests without a valid session end with 401 {"error":"Unauthorized"}.
func SessionAuth(store identity.SessionStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedBody)
			return
		}

		session, err := store.Resolve(c.Request.Context(), token)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.CodeStorageFailure {
				logger.L(c.Request.Context()).Error("Session lookup failed", zap.Error(err))
				status, body := dto.FromDomainError(domainErr)
				c.AbortWithStatusJSON(status, body)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedBody)
			return
		}

		c.Set(UserIDKey, session.UserID)
		c.Set(UsernameKey, session.Username)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), session.UserID.String()))
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID set by SessionAuth
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GetUsername returns the authenticated user's name set by SessionAuth
func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
