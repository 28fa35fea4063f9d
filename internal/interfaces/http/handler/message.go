package handler

import (
	"context"

	messageapp "github.com/Geogebrd/scaond-hand-platform/internal/application/message"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageService is the part of messageapp.Service the handler needs
type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, req messageapp.SendRequest) (*messageapp.MessageResponse, error)
	History(ctx context.Context, userID, otherID uuid.UUID) ([]messageapp.MessageResponse, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]messageapp.ConversationResponse, error)
}

// MessageHandler serves /messages
type MessageHandler struct {
	BaseHandler
	messages MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Get returns the conversation with ?user_id= for action=history, otherwise
// the list of conversation partners
func (h *MessageHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if c.Query("action") == "history" {
		otherID, err := parseUUIDQuery(c, "user_id")
		if err != nil {
			h.HandleError(c, err)
			return
		}
		history, err := h.messages.History(c.Request.Context(), userID, otherID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, history)
		return
	}

	conversations, err := h.messages.Conversations(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conversations)
}

// Post sends a message
func (h *MessageHandler) Post(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req messageapp.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	msg, err := h.messages.Send(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Message sent", msg)
}
