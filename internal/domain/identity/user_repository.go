package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user. A username or email collision yields shared.ErrAlreadyExists.
	Create(ctx context.Context, user *User) error

	// FindByID returns the user or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername matches case-insensitively
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsernameOrEmail checks both uniqueness keys at once
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// UpdateProfile writes only the shipping profile columns
	UpdateProfile(ctx context.Context, userID uuid.UUID, profile ShippingProfile) error
}
