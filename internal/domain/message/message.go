package message

import (
	"time"
	"unicode/utf8"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
)

const maxContentLength = 2000

// Message is an append-only note from one user to another
type Message struct {
	shared.BaseEntity
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
}

// NewMessage validates and creates a message
func NewMessage(senderID, receiverID uuid.UUID, content string) (*Message, error) {
	content = shared.CleanText(content)
	if receiverID == uuid.Nil || content == "" {
		return nil, shared.NewValidationError("Missing fields")
	}
	if senderID == receiverID {
		return nil, shared.NewValidationError("Cannot send a message to yourself")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, shared.NewValidationError("Message is too long")
	}
	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}, nil
}

// Entry is a message with its sender's username, as shown in a thread
type Entry struct {
	Message
	SenderName string
}

// Conversation summarizes one chat partner of a user
type Conversation struct {
	PartnerID     uuid.UUID
	PartnerName   string
	LastMessageAt time.Time
}
