package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"finsight/internal/auth"
	"finsight/internal/db"
	"finsight/internal/middleware"
	"finsight/internal/models"
	"finsight/internal/store"
	"finsight/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var errEmailTaken = errors.New("email already in use")

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(strings.TrimSpace(req.Email)); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		CreatedAt: time.Now().UTC(),
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		exists, err := h.users.ExistsByEmail(r.Context(), tx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return errEmailTaken
		}
		if err := h.users.Create(r.Context(), tx, user.ID, user.Name, user.Email, passwordHash); err != nil {
			return err
		}
		return h.audit.Log(r.Context(), tx, user.ID, "signup", "user", user.ID, h.requestMeta(r, user.ID))
	})
	if err != nil {
		if errors.Is(err, errEmailTaken) || db.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "Email already in use")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !h.startSession(w, user) {
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "Account created successfully",
	})
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// Unknown email and wrong password share one response.
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.audit.Log(r.Context(), tx, user.ID, "signin", "user", user.ID, h.requestMeta(r, user.ID))
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !h.startSession(w, user) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"message": "Login successful",
	})
}

func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	cookie := h.sessionCookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CheckSession verifies signature and expiry only.
func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	respondJSON(w, http.StatusOK, map[string]bool{
		"loggedIn": token != "" && auth.ValidToken(h.cfg.JWTSecret, token),
	})
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseToken(h.cfg.JWTSecret, middleware.TokenFromRequest(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	limit, offset := page(r, 20)
	entries, err := h.audit.ListByActor(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

func (h *Handler) startSession(w http.ResponseWriter, user models.User) bool {
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	http.SetCookie(w, h.sessionCookie(token))
	return true
}

// sessionCookie is cross-site in production, where the frontend is served
// from another origin over TLS.
func (h *Handler) sessionCookie(token string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.cfg.TokenTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

func (h *Handler) requestMeta(r *http.Request, userID string) string {
	data, _ := json.Marshal(map[string]string{
		"user_id":    userID,
		"ip":         r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
	return string(data)
}
