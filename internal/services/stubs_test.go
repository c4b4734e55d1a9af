package services

import (
	"context"
	"sync"
	"time"

	"finsight/internal/events"
	"finsight/internal/models"
	"finsight/internal/store"
	"finsight/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserReader struct {
	getByIDFn func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserReader) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubFinancialStore struct {
	createFn    func(ctx context.Context, tx store.Getter, record models.FinancialRecord) (models.FinancialRecord, error)
	getLatestFn func(ctx context.Context, userID string) (models.FinancialRecord, error)
	latestIDFn  func(ctx context.Context, userID string) (string, error)
}

func (s stubFinancialStore) Create(ctx context.Context, tx store.Getter, record models.FinancialRecord) (models.FinancialRecord, error) {
	if s.createFn == nil {
		return record, nil
	}
	return s.createFn(ctx, tx, record)
}

func (s stubFinancialStore) GetLatestByUser(ctx context.Context, userID string) (models.FinancialRecord, error) {
	if s.getLatestFn == nil {
		return models.FinancialRecord{}, store.ErrNotFound
	}
	return s.getLatestFn(ctx, userID)
}

// LatestIDByUser falls back to getLatestFn so fixtures only describe records once.
func (s stubFinancialStore) LatestIDByUser(ctx context.Context, userID string) (string, error) {
	if s.latestIDFn != nil {
		return s.latestIDFn(ctx, userID)
	}
	record, err := s.GetLatestByUser(ctx, userID)
	return record.ID, err
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type cacheEntry struct {
	recordID string
	summary  string
}

type memoryCache struct {
	mu          sync.Mutex
	values      map[string]cacheEntry
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]cacheEntry{}}
}

func (c *memoryCache) GetSummary(_ context.Context, userID, recordID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.values[userID]
	if !ok || entry.recordID != recordID {
		return "", false
	}
	return entry.summary, true
}

func (c *memoryCache) SetSummary(_ context.Context, userID, recordID, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[userID] = cacheEntry{recordID: recordID, summary: summary}
}

func (c *memoryCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type recordingEvents struct {
	records []events.RecordCreated
	turns   []events.ChatTurnCompleted
}

func (r *recordingEvents) RecordCreated(event events.RecordCreated) {
	r.records = append(r.records, event)
}

func (r *recordingEvents) ChatTurnCompleted(event events.ChatTurnCompleted) {
	r.turns = append(r.turns, event)
}

type stubAssistant struct {
	askFn func(ctx context.Context, question, financialSummary string) (string, error)
}

func (s stubAssistant) Ask(ctx context.Context, question, financialSummary string) (string, error) {
	if s.askFn == nil {
		return "ok", nil
	}
	return s.askFn(ctx, question, financialSummary)
}

type stubHub struct {
	turns map[string][]websocket.ChatTurn
}

func (s *stubHub) BroadcastChat(userID string, turn websocket.ChatTurn) {
	if s.turns == nil {
		s.turns = map[string][]websocket.ChatTurn{}
	}
	s.turns[userID] = append(s.turns[userID], turn)
}

// memoryLog is an in-memory conversation and message store.
// Its clock advances one minute per write.
type memoryLog struct {
	mu            sync.Mutex
	conversations []models.Conversation
	messages      []models.Message
	touched       []string
	ticks         int
}

func (m *memoryLog) tick() time.Time {
	m.ticks++
	return time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(m.ticks) * time.Minute)
}

func (m *memoryLog) Create(_ context.Context, id, userID, title string) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	conversation := models.Conversation{ID: id, UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	m.conversations = append(m.conversations, conversation)
	return conversation, nil
}

func (m *memoryLog) GetForUser(_ context.Context, id, userID string) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conversation := range m.conversations {
		if conversation.ID == id && conversation.UserID == userID {
			return conversation, nil
		}
	}
	return models.Conversation{}, store.ErrNotFound
}

func (m *memoryLog) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Conversation
	for _, conversation := range m.conversations {
		if conversation.UserID == userID {
			out = append(out, conversation)
		}
	}
	return out, nil
}

func (m *memoryLog) Touch(_ context.Context, id string) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			m.conversations[i].UpdatedAt = m.tick()
			m.touched = append(m.touched, id)
			return m.conversations[i], nil
		}
	}
	return models.Conversation{}, store.ErrNotFound
}

type memoryMessages struct {
	log *memoryLog
}

func (m memoryMessages) Create(_ context.Context, id, conversationID string, userID *string, role models.Role, content string) (models.Message, error) {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	message := models.Message{ID: id, ConversationID: conversationID, UserID: userID, Role: role, Content: content}
	m.log.messages = append(m.log.messages, message)
	return message, nil
}

func (m memoryMessages) ListByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	var out []models.Message
	for _, message := range m.log.messages {
		if message.ConversationID == conversationID {
			out = append(out, message)
		}
	}
	return out, nil
}
