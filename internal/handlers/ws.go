package handlers

import (
	"net/http"

	"finsight/internal/middleware"
	"finsight/internal/websocket"
)

// WSChat upgrades the session to a socket that receives completed chat turns.
func (h *Handler) WSChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	websocket.ServeWS(w, r, h.upgrader, h.hub, userID)
}
