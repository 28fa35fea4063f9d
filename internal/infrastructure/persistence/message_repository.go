package persistence

import (
	"context"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/message"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMessageRepository implements message.Repository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create appends a message
func (r *GormMessageRepository) Create(ctx context.Context, msg *message.Message) error {
	return translateError(r.db.WithContext(ctx).Create(models.MessageModelFromDomain(msg)).Error)
}

type threadRow struct {
	models.MessageModel
	SenderName string
}

// Thread returns the messages between the two users in both directions, oldest first
func (r *GormMessageRepository) Thread(ctx context.Context, userID, otherID uuid.UUID) ([]message.Entry, error) {
	var rows []threadRow
	if err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Select("messages.*, users.username AS sender_name").
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("(messages.sender_id = ? AND messages.receiver_id = ?) OR (messages.sender_id = ? AND messages.receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("messages.created_at ASC, messages.id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	entries := make([]message.Entry, len(rows))
	for i := range rows {
		entries[i] = message.Entry{
			Message:    rows[i].MessageModel.ToDomain(),
			SenderName: rows[i].SenderName,
		}
	}
	return entries, nil
}

type conversationRow struct {
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	CreatedAt   time.Time
	PartnerName string
}

// Conversations returns each distinct chat partner of the user with the time
// of the latest message exchanged, most recent first. The latest message per
// pair is picked with NOT EXISTS so created_at keeps its column type on sqlite.
func (r *GormMessageRepository) Conversations(ctx context.Context, userID uuid.UUID) ([]message.Conversation, error) {
	var rows []conversationRow
	if err := r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.sender_id, m.receiver_id, m.created_at, users.username AS partner_name").
		Joins("JOIN users ON users.id = CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END", userID).
		Where("(m.sender_id = ? OR m.receiver_id = ?)", userID, userID).
		Where(`NOT EXISTS (
			SELECT 1 FROM messages n
			WHERE ((n.sender_id = m.sender_id AND n.receiver_id = m.receiver_id)
				OR (n.sender_id = m.receiver_id AND n.receiver_id = m.sender_id))
			AND (n.created_at > m.created_at OR (n.created_at = m.created_at AND n.id > m.id)))`).
		Order("m.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	conversations := make([]message.Conversation, len(rows))
	for i, row := range rows {
		partner := row.SenderID
		if partner == userID {
			partner = row.ReceiverID
		}
		conversations[i] = message.Conversation{
			PartnerID:     partner,
			PartnerName:   row.PartnerName,
			LastMessageAt: row.CreatedAt,
		}
	}
	return conversations, nil
}

var _ message.Repository = (*GormMessageRepository)(nil)
