package identity

import (
	"context"
	"sync"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid credentials")

// unknown usernames are checked against this hash so they cost as much as a wrong password
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	return h
})

// AuthService handles registration and session based login
type AuthService struct {
	userRepo       identity.UserRepository
	sessions       identity.SessionStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, sessions identity.SessionStore, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for UserRegistered events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a new account. Username and email are unique ignoring case.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errUserExists()
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name
		if shared.IsCode(err, shared.CodeAlreadyExists) {
			return nil, errUserExists()
		}
		s.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, user.GetDomainEvents()...)
	}
	user.ClearDomainEvents()

	resp := ToUserResponse(user)
	return &resp, nil
}

// Login verifies the credentials and opens a session
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, shared.CleanText(req.Username))
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			s.logger.Warn("Login for unknown user", zap.String("username", req.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", user.Username))
		return nil, errInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to create session", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// Logout revokes the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// Check resolves the token to the logged in user, if any
func (s *AuthService) Check(ctx context.Context, token string) (*CheckResponse, error) {
	if token == "" {
		return &CheckResponse{}, nil
	}
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if shared.IsCode(err, shared.CodeUnauthorized) {
			return &CheckResponse{}, nil
		}
		return nil, err
	}
	return &CheckResponse{
		LoggedIn: true,
		User:     &UserResponse{ID: session.UserID, Username: session.Username},
	}, nil
}

func errUserExists() error {
	return shared.NewDomainError(shared.CodeAlreadyExists, "Username or Email already exists")
}
