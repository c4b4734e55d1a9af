package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"finsight/internal/models"
)

const EventChatTurn = "chat.turn"

// ChatTurn is pushed to every open socket of the conversation owner once a
// question and its answer are both persisted.
type ChatTurn struct {
	Type         string              `json:"type"`
	Conversation models.Conversation `json:"conversation"`
	Messages     []models.Message    `json:"messages"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// BroadcastChat never blocks: a client whose buffer is full misses the event.
func (h *Hub) BroadcastChat(userID string, turn ChatTurn) {
	if h == nil {
		return
	}
	turn.Type = EventChatTurn
	payload, err := json.Marshal(turn)
	if err != nil {
		log.Printf("websocket: encode chat turn: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
