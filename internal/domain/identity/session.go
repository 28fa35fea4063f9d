package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session maps an opaque cookie token to an authenticated user
type Session struct {
	Token     string
	UserID    uuid.UUID
	Username  string
	ExpiresAt time.Time
}

// SessionStore owns the session lifecycle.
// Resolve returns shared.ErrUnauthorized for unknown or expired tokens.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID, username string) (*Session, error)
	Resolve(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
	Close() error
}
