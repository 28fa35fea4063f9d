package message

import (
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/message"
	"github.com/google/uuid"
)

// SendRequest is the body of the messages send action
type SendRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Content    string    `json:"content" binding:"required,max=2000"`
}

// MessageResponse is one message of a thread
type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationResponse is one chat partner with the time of the latest message
type ConversationResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// ToMessageResponse converts a thread entry to its API view
func ToMessageResponse(e message.Entry) MessageResponse {
	return MessageResponse{
		ID:         e.ID,
		SenderID:   e.SenderID,
		SenderName: e.SenderName,
		ReceiverID: e.ReceiverID,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
	}
}
