package identity

import (
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest is the body of the auth register action
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the body of the auth login action
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateSettingsRequest is the body of the settings update action
type UpdateSettingsRequest struct {
	RealName string `json:"real_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// LoginResult carries the new session and the logged in user
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserResponse
}

// CheckResponse reports whether the request carries a live session
type CheckResponse struct {
	LoggedIn bool          `json:"logged_in"`
	User     *UserResponse `json:"user,omitempty"`
}

// SettingsResponse is the account and shipping profile of the current user
type SettingsResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	RealName string `json:"real_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ToUserResponse converts a user to its public view
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

// ToSettingsResponse converts a user to the settings view
func ToSettingsResponse(u *identity.User) SettingsResponse {
	return SettingsResponse{
		Username: u.Username,
		Email:    u.Email,
		RealName: u.Profile.RealName,
		Phone:    u.Profile.Phone,
		Address:  u.Profile.Address,
	}
}
