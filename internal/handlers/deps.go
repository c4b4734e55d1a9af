package handlers

import (
	"context"

	"finsight/internal/models"
	"finsight/internal/services"
	"finsight/internal/store"
	"finsight/internal/summary"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, name, email, passwordHash string) error
	ExistsByEmail(ctx context.Context, tx store.Getter, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditEntry, error)
}

type FinancialService interface {
	Create(ctx context.Context, userID string, record models.FinancialRecord) (models.FinancialRecord, error)
	Latest(ctx context.Context, userID string) (models.FinancialRecord, error)
	Overview(ctx context.Context, userID string) (summary.Totals, error)
}

type ChatService interface {
	Chat(ctx context.Context, req services.ChatRequest) (services.ChatResult, error)
	Conversations(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error)
	Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error)
}
