package store

import (
	"context"

	"finsight/internal/models"
)

type ConversationStore struct {
	db DB
}

func NewConversationStore(db DB) *ConversationStore {
	return &ConversationStore{db: db}
}

const conversationColumns = `id, user_id, title, created_at, updated_at`

func (s *ConversationStore) Create(ctx context.Context, id, userID, title string) (models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.GetContext(ctx, &conversation, `
		INSERT INTO conversations (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING `+conversationColumns, id, userID, title)
	return conversation, err
}

// GetForUser loads a conversation only when userID owns it.
func (s *ConversationStore) GetForUser(ctx context.Context, id, userID string) (models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.GetContext(ctx, &conversation, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return conversation, notFound(err)
}

func (s *ConversationStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := s.db.SelectContext(ctx, &conversations, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return conversations, err
}

// Touch bumps updated_at so a continued conversation sorts first, and
// returns the updated row.
func (s *ConversationStore) Touch(ctx context.Context, id string) (models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.GetContext(ctx, &conversation, `
		UPDATE conversations SET updated_at = now()
		WHERE id = $1
		RETURNING `+conversationColumns, id)
	return conversation, notFound(err)
}
