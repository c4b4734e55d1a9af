package handlers

import (
	"net/http"

	"finsight/internal/config"
	"finsight/internal/db"
	"finsight/internal/middleware"
	"finsight/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorilla "github.com/gorilla/websocket"
)

type Handler struct {
	txRunner  db.TxRunner
	cfg       config.Config
	users     UserStore
	audit     AuditStore
	financial FinancialService
	chat      ChatService
	hub       *websocket.Hub
	upgrader  *gorilla.Upgrader
	limiter   *middleware.UserRateLimiter
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, audit AuditStore, financial FinancialService, chat ChatService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:  txRunner,
		cfg:       cfg,
		users:     users,
		audit:     audit,
		financial: financial,
		chat:      chat,
		hub:       hub,
		upgrader:  websocket.NewUpgrader(cfg.AllowedOrigins),
		limiter:   middleware.NewUserRateLimiter(cfg.ChatRatePerMinute, cfg.ChatRateBurst),
	}
}

// Limiter exposes the chat limiter so main can prune idle buckets.
func (h *Handler) Limiter() *middleware.UserRateLimiter {
	return h.limiter
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/signin", h.Signin)
		r.Get("/signout", h.Signout)
		r.Get("/check", h.CheckSession)
		r.Get("/user", h.CurrentUser)
		r.With(requireAuth).Get("/activity", h.Activity)
	})
	router.Route("/financial", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/manual-create-financial-data", h.CreateFinancialData)
		r.Get("/get-financial-data", h.GetFinancialData)
		r.Get("/overview", h.FinancialOverview)
	})
	router.Route("/chat", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(middleware.RateLimit(h.limiter)).Post("/chat_with_ai", h.ChatWithAI)
		r.Get("/conversations", h.ListConversations)
		r.Get("/conversations/{id}/messages", h.ListMessages)
	})
	router.With(requireAuth).Get("/ws/chat", h.WSChat)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
