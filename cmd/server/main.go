package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finsight/internal/assistant"
	"finsight/internal/cache"
	"finsight/internal/config"
	"finsight/internal/db"
	"finsight/internal/events"
	"finsight/internal/handlers"
	"finsight/internal/services"
	"finsight/internal/store"
	"finsight/internal/websocket"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.UsesInsecureSecret() {
		log.Printf("warning: JWT_SECRET is not set, signing sessions with the development secret")
	}
	if cfg.LLMAPIKey == "" {
		log.Printf("warning: LLM_API_KEY is not set, chat requests will fail upstream")
	}
	decimal.MarshalJSONWithoutQuotes = true

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	database, err := db.Connect(connectCtx, cfg.DatabaseURL)
	cancelConnect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	summaryCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.SummaryCacheTTL)
	defer summaryCache.Close()

	publisher, err := events.Connect(cfg.NatsURL)
	if err != nil {
		log.Fatalf("failed to connect nats: %v", err)
	}
	defer publisher.Close()

	gateway := assistant.New(assistant.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})

	users := store.NewUserStore(database)
	records := store.NewFinancialStore(database)
	conversations := store.NewConversationStore(database)
	messages := store.NewMessageStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	financial := services.NewFinancialService(txRunner, users, records, audit, summaryCache, publisher)
	chat := services.NewChatService(txRunner, users, financial, conversations, messages, gateway, audit, publisher, hub, cfg.ChatAllowWithoutRecord)

	handler := handlers.New(txRunner, cfg, users, audit, financial, chat, hub)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler.Routes(),
		ReadTimeout: 10 * time.Second,
		// Chat turns wait on the model.
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopPrune := make(chan struct{})
	go pruneLimiter(handler, stopPrune)

	go func() {
		log.Printf("finsight API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	close(stopPrune)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func pruneLimiter(handler *handlers.Handler, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			handler.Limiter().Prune(10 * time.Minute)
		}
	}
}
