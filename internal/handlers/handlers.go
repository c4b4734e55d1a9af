package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

const maxOffset = 100_000

// page reads limit and page query parameters, capping limit at 100 and the
// offset at maxOffset.
func page(r *http.Request, defaultLimit int) (limit, offset int) {
	query := r.URL.Query()
	limit = parseInt(query.Get("limit"), defaultLimit)
	if limit > 100 {
		limit = 100
	}
	pageNumber := parseInt(query.Get("page"), 1)
	if pageNumber-1 > maxOffset/limit {
		return limit, maxOffset
	}
	return limit, (pageNumber - 1) * limit
}
