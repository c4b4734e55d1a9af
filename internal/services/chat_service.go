package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"finsight/internal/db"
	"finsight/internal/events"
	"finsight/internal/models"
	"finsight/internal/store"
	"finsight/internal/summary"
	"finsight/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SummarySource interface {
	Summary(ctx context.Context, userID string) (string, error)
}

type ChatService struct {
	txRunner           db.TxRunner
	users              UserReader
	summaries          SummarySource
	conversations      ConversationStore
	messages           MessageStore
	assistant          Assistant
	audit              AuditStore
	events             EventPublisher
	hub                ChatHub
	allowWithoutRecord bool
	now                func() time.Time
}

func NewChatService(txRunner db.TxRunner, users UserReader, summaries SummarySource, conversations ConversationStore, messages MessageStore, assistant Assistant, audit AuditStore, events EventPublisher, hub ChatHub, allowWithoutRecord bool) *ChatService {
	return &ChatService{
		txRunner:           txRunner,
		users:              users,
		summaries:          summaries,
		conversations:      conversations,
		messages:           messages,
		assistant:          assistant,
		audit:              audit,
		events:             events,
		hub:                hub,
		allowWithoutRecord: allowWithoutRecord,
		now:                time.Now,
	}
}

type ChatRequest struct {
	UserID         string
	Question       string
	ConversationID string
}

type ChatResult struct {
	Conversation models.Conversation `json:"conversation"`
	Messages     []models.Message    `json:"messages"`
}

// Chat answers one question. The conversation and both messages are written
// without a surrounding transaction, so an upstream failure leaves the user
// message in place.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	if _, err := requireUser(ctx, s.users, req.UserID); err != nil {
		return ChatResult{}, err
	}
	if strings.TrimSpace(req.Question) == "" {
		return ChatResult{}, ErrEmptyQuestion
	}

	financialSummary, err := s.summaries.Summary(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, ErrRecordNotFound) || !s.allowWithoutRecord {
			return ChatResult{}, err
		}
		financialSummary = summary.NoData
	}

	conversation, err := s.conversation(ctx, req)
	if err != nil {
		return ChatResult{}, err
	}

	userID := req.UserID
	userMsg, err := s.messages.Create(ctx, uuid.NewString(), conversation.ID, &userID, models.RoleUser, req.Question)
	if err != nil {
		return ChatResult{}, fmt.Errorf("save user message: %w", err)
	}

	reply, err := s.assistant.Ask(ctx, req.Question, financialSummary)
	if err != nil {
		log.Printf("chat: assistant failed for conversation %s: %v", conversation.ID, err)
		return ChatResult{}, err
	}

	aiMsg, err := s.messages.Create(ctx, uuid.NewString(), conversation.ID, nil, models.RoleAI, reply)
	if err != nil {
		return ChatResult{}, fmt.Errorf("save ai message: %w", err)
	}

	result := ChatResult{
		Conversation: conversation,
		Messages:     []models.Message{userMsg, aiMsg},
	}
	s.completed(ctx, req.UserID, result)
	return result, nil
}

func (s *ChatService) conversation(ctx context.Context, req ChatRequest) (models.Conversation, error) {
	if req.ConversationID == "" {
		conversation, err := s.conversations.Create(ctx, uuid.NewString(), req.UserID, req.Question)
		if err != nil {
			return models.Conversation{}, fmt.Errorf("create conversation: %w", err)
		}
		return conversation, nil
	}
	conversation, err := s.conversations.GetForUser(ctx, req.ConversationID, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}
	touched, err := s.conversations.Touch(ctx, conversation.ID)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("touch conversation: %w", err)
	}
	return touched, nil
}

// completed runs the post-turn side effects. None of them can fail the turn.
func (s *ChatService) completed(ctx context.Context, userID string, result ChatResult) {
	userMsg, aiMsg := result.Messages[0], result.Messages[1]
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		data, _ := json.Marshal(map[string]string{
			"conversation_id": result.Conversation.ID,
			"user_message_id": userMsg.ID,
			"ai_message_id":   aiMsg.ID,
		})
		return s.audit.Log(ctx, tx, userID, "chat", "conversation", result.Conversation.ID, string(data))
	})
	if err != nil {
		log.Printf("chat: audit failed for conversation %s: %v", result.Conversation.ID, err)
	}
	s.events.ChatTurnCompleted(events.ChatTurnCompleted{
		ConversationID: result.Conversation.ID,
		UserID:         userID,
		UserMessageID:  userMsg.ID,
		AIMessageID:    aiMsg.ID,
		CompletedAt:    s.now().UTC(),
	})
	s.hub.BroadcastChat(userID, websocket.ChatTurn{
		Conversation: result.Conversation,
		Messages:     result.Messages,
	})
}

func (s *ChatService) Conversations(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID, limit, offset)
}

// Messages lists a conversation's messages oldest first, only for its owner.
func (s *ChatService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	if _, err := s.conversations.GetForUser(ctx, conversationID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.messages.ListByConversation(ctx, conversationID)
}
