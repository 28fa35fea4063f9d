package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
)

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
)

// User is a marketplace account. It is the aggregate root for credentials and
// the stored shipping profile.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	Profile      ShippingProfile
}

// NewUser creates a user with a hashed password
func NewUser(username, email, password string) (*User, error) {
	username = shared.CleanText(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// UsernameKey is the case-insensitive uniqueness key of the username
func (u *User) UsernameKey() string {
	return shared.FoldKey(u.Username)
}

// EmailKey is the case-insensitive uniqueness key of the email
func (u *User) EmailKey() string {
	return shared.FoldKey(u.Email)
}

// VerifyPassword checks if the provided password matches the hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile replaces the shipping profile. All three fields are required.
func (u *User) UpdateProfile(profile ShippingProfile) error {
	profile = profile.Clean()
	if missing := profile.Missing(); len(missing) > 0 {
		return shared.NewDomainErrorWithDetails(shared.CodeValidation,
			"All fields (Name, Phone, Address) are required", missing...)
	}
	u.Profile = profile
	u.Touch()
	u.IncrementVersion()
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewValidationError("Username is required")
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return shared.NewValidationError("Username must be between 3 and 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewValidationError("Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewValidationError("Password is required")
	}
	if len(password) < minPasswordLength {
		return shared.NewValidationError("Password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return shared.NewValidationError("Password cannot exceed 72 bytes")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Email is required")
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
