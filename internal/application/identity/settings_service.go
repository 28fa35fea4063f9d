package identity

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// SettingsService reads and updates the account profile
type SettingsService struct {
	userRepo identity.UserRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(userRepo identity.UserRepository) *SettingsService {
	return &SettingsService{userRepo: userRepo}
}

// Get returns the account and shipping profile of the user
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*SettingsResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(user)
	return &resp, nil
}

// Update replaces the shipping profile. Name, phone and address are all required.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(identity.ShippingProfile{
		RealName: req.RealName,
		Phone:    req.Phone,
		Address:  req.Address,
	}); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, user.ID, user.Profile); err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(user)
	return &resp, nil
}

func (s *SettingsService) find(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
