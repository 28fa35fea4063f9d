package message

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for message persistence
type Repository interface {
	Create(ctx context.Context, msg *Message) error

	// Thread returns messages exchanged between the two users in both directions, oldest first
	Thread(ctx context.Context, userID, otherID uuid.UUID) ([]Entry, error)

	// Conversations returns the distinct partners of the user, most recent first
	Conversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
}
