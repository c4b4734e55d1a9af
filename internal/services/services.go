package services

import (
	"context"
	"errors"

	"finsight/internal/events"
	"finsight/internal/models"
	"finsight/internal/store"
	"finsight/internal/websocket"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRecordNotFound       = errors.New("no financial data found")
	ErrEmptyQuestion        = errors.New("please enter a message")
	ErrConversationNotFound = errors.New("conversation not found")
)

type UserReader interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type FinancialStore interface {
	Create(ctx context.Context, tx store.Getter, record models.FinancialRecord) (models.FinancialRecord, error)
	GetLatestByUser(ctx context.Context, userID string) (models.FinancialRecord, error)
	LatestIDByUser(ctx context.Context, userID string) (string, error)
}

type ConversationStore interface {
	Create(ctx context.Context, id, userID, title string) (models.Conversation, error)
	GetForUser(ctx context.Context, id, userID string) (models.Conversation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error)
	Touch(ctx context.Context, id string) (models.Conversation, error)
}

type MessageStore interface {
	Create(ctx context.Context, id, conversationID string, userID *string, role models.Role, content string) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type SummaryCache interface {
	GetSummary(ctx context.Context, userID, recordID string) (string, bool)
	SetSummary(ctx context.Context, userID, recordID, summary string)
	Invalidate(ctx context.Context, userID string) error
}

type EventPublisher interface {
	RecordCreated(event events.RecordCreated)
	ChatTurnCompleted(event events.ChatTurnCompleted)
}

type Assistant interface {
	Ask(ctx context.Context, question, financialSummary string) (string, error)
}

type ChatHub interface {
	BroadcastChat(userID string, turn websocket.ChatTurn)
}

func requireUser(ctx context.Context, users UserReader, userID string) (models.User, error) {
	user, err := users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}
