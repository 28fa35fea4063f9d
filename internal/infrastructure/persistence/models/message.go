package models

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/message"
	"github.com/google/uuid"
)

// MessageModel is the persistence model for an append-only message
type MessageModel struct {
	BaseModel
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index"`
	Content    string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message
func (m *MessageModel) ToDomain() message.Message {
	return message.Message{
		BaseEntity: m.BaseModel.ToDomain(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
	}
}

// MessageModelFromDomain creates a new persistence model from a domain Message
func MessageModelFromDomain(msg *message.Message) *MessageModel {
	m := &MessageModel{
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
	}
	m.FromDomainBaseEntity(msg.BaseEntity)
	return m
}
