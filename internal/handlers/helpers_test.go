package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"finsight/internal/auth"
	"finsight/internal/config"
	"finsight/internal/db"
	"finsight/internal/middleware"
	"finsight/internal/models"
	"finsight/internal/services"
	"finsight/internal/store"
	"finsight/internal/summary"
	"finsight/internal/websocket"

	"github.com/jmoiron/sqlx"
)

const testSecret = "secret"

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

// memoryUsers is a UserStore keyed by lowercased email.
type memoryUsers struct {
	mu       sync.Mutex
	byEmail  map[string]models.User
	createFn func(email string) error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]models.User{}}
}

func (m *memoryUsers) Create(_ context.Context, _ store.Execer, id, name, email, passwordHash string) error {
	if m.createFn != nil {
		if err := m.createFn(email); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[strings.ToLower(email)] = models.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return nil
}

func (m *memoryUsers) ExistsByEmail(_ context.Context, _ store.Getter, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memoryUsers) GetByID(_ context.Context, userID string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, actorID string, limit, offset int) ([]models.AuditEntry, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, actorID, limit, offset)
}

type stubFinancialService struct {
	createFn   func(ctx context.Context, userID string, record models.FinancialRecord) (models.FinancialRecord, error)
	latestFn   func(ctx context.Context, userID string) (models.FinancialRecord, error)
	overviewFn func(ctx context.Context, userID string) (summary.Totals, error)
}

func (s stubFinancialService) Create(ctx context.Context, userID string, record models.FinancialRecord) (models.FinancialRecord, error) {
	if s.createFn == nil {
		return record, nil
	}
	return s.createFn(ctx, userID, record)
}

func (s stubFinancialService) Latest(ctx context.Context, userID string) (models.FinancialRecord, error) {
	if s.latestFn == nil {
		return models.FinancialRecord{}, services.ErrRecordNotFound
	}
	return s.latestFn(ctx, userID)
}

func (s stubFinancialService) Overview(ctx context.Context, userID string) (summary.Totals, error) {
	if s.overviewFn == nil {
		return summary.Totals{}, services.ErrRecordNotFound
	}
	return s.overviewFn(ctx, userID)
}

type stubChatService struct {
	chatFn          func(ctx context.Context, req services.ChatRequest) (services.ChatResult, error)
	conversationsFn func(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error)
	messagesFn      func(ctx context.Context, userID, conversationID string) ([]models.Message, error)
}

func (s stubChatService) Chat(ctx context.Context, req services.ChatRequest) (services.ChatResult, error) {
	if s.chatFn == nil {
		return services.ChatResult{}, nil
	}
	return s.chatFn(ctx, req)
}

func (s stubChatService) Conversations(ctx context.Context, userID string, limit, offset int) ([]models.Conversation, error) {
	if s.conversationsFn == nil {
		return nil, nil
	}
	return s.conversationsFn(ctx, userID, limit, offset)
}

func (s stubChatService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	if s.messagesFn == nil {
		return nil, nil
	}
	return s.messagesFn(ctx, userID, conversationID)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:            "test",
		Port:              "0",
		JWTSecret:         testSecret,
		TokenTTL:          time.Hour,
		ChatRatePerMinute: 60,
		ChatRateBurst:     5,
	}
}

func newTestHandler(txRunner db.TxRunner, users UserStore, audit AuditStore, financial FinancialService, chat ChatService) *Handler {
	return New(txRunner, testConfig(), users, audit, financial, chat, websocket.NewHub())
}

func sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, userID+"@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &http.Cookie{Name: middleware.CookieName, Value: token}
}

// do sends a request through the full router, with a session cookie for
// userID when it is not empty.
func do(t *testing.T, h *Handler, method, target, userID string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.AddCookie(sessionCookie(t, userID))
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}
