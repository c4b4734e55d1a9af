package store

import (
	"context"

	"finsight/internal/models"
)

type MessageStore struct {
	db DB
}

func NewMessageStore(db DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, conversation_id, user_id, role, content, created_at`

// Create persists one message. userID is nil for assistant turns.
func (s *MessageStore) Create(ctx context.Context, id, conversationID string, userID *string, role models.Role, content string) (models.Message, error) {
	var message models.Message
	err := s.db.GetContext(ctx, &message, `
		INSERT INTO messages (id, conversation_id, user_id, role, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns, id, conversationID, userID, role, content)
	return message, err
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.SelectContext(ctx, &messages, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	return messages, err
}
