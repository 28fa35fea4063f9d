package message

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/message"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles direct messages between users. Delivery is by polling.
type Service struct {
	messages message.Repository
	users    identity.UserRepository
}

// NewService creates a new message service
func NewService(messages message.Repository, users identity.UserRepository) *Service {
	return &Service{
		messages: messages,
		users:    users,
	}
}

// Send stores a message from sender to the receiver in the request
func (s *Service) Send(ctx context.Context, senderID uuid.UUID, req SendRequest) (*MessageResponse, error) {
	if senderID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	msg, err := message.NewMessage(senderID, req.ReceiverID, req.Content)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, msg.ReceiverID); err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewNotFoundError("Receiver not found")
		}
		return nil, err
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	resp := ToMessageResponse(message.Entry{Message: *msg})
	return &resp, nil
}

// History returns the thread between the user and the other party, oldest first
func (s *Service) History(ctx context.Context, userID, otherID uuid.UUID) ([]MessageResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if otherID == uuid.Nil {
		return nil, shared.NewValidationError("User ID required")
	}
	entries, err := s.messages.Thread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	resp := make([]MessageResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, ToMessageResponse(e))
	}
	return resp, nil
}

// Conversations lists the user's chat partners, most recent first
func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	convs, err := s.messages.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]ConversationResponse, 0, len(convs))
	for _, c := range convs {
		resp = append(resp, ConversationResponse{
			UserID:        c.PartnerID,
			Username:      c.PartnerName,
			LastMessageAt: c.LastMessageAt,
		})
	}
	return resp, nil
}
