package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

const messageColumns = `id, conversation_id, sender_id, sender_name, sender_email,
	receiver_id, receiver_name, receiver_email, product_id, product_title, content, is_read, created_at`

// MessageRepository handles data access for buyer/seller messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a message.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, sender_name, sender_email,
			receiver_id, receiver_name, receiver_email, product_id, product_title, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING is_read, created_at`,
		m.ID, m.ConversationID, m.SenderID, m.SenderName, m.SenderEmail,
		m.ReceiverID, m.ReceiverName, m.ReceiverEmail, m.ProductID, m.ProductTitle, m.Content,
	).Scan(&m.IsRead, &m.CreatedAt)
}

// ListForUser returns every message the user sent or received, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// List returns the most recent messages across all users.
func (r *MessageRepository) List(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 500
	}
	messages := []models.Message{}
	err := r.db.SelectContext(ctx, &messages,
		`SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead marks the messages userID received in a conversation as read.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, conversationID, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = true
		WHERE conversation_id = $1 AND receiver_id = $2 AND is_read = false`, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
