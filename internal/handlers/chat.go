package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"finsight/internal/middleware"
	"finsight/internal/services"

	"github.com/go-chi/chi/v5"
)

type chatRequest struct {
	UserID              string `json:"userId"`
	ConversationMessage string `json:"conversationMessage"`
	ConversationID      string `json:"conversationId"`
}

func (h *Handler) ChatWithAI(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	userID, ok := h.targetUser(w, r, req.UserID, "Please login first")
	if !ok {
		return
	}

	result, err := h.chat.Chat(r.Context(), services.ChatRequest{
		UserID:         userID,
		Question:       req.ConversationMessage,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrEmptyQuestion):
			respondError(w, http.StatusBadRequest, "Please enter a message")
		case errors.Is(err, services.ErrRecordNotFound):
			respondError(w, http.StatusNotFound, "Financial data not found")
		case errors.Is(err, services.ErrConversationNotFound):
			respondError(w, http.StatusNotFound, "Conversation not found")
		default:
			respondError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	limit, offset := page(r, 20)
	conversations, err := h.chat.Conversations(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	messages, err := h.chat.Messages(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			respondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
