package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"finsight/internal/middleware"
	"finsight/internal/models"
	"finsight/internal/services"
	"finsight/internal/validator"
)

// financialRequest is the form payload. Income, expenses and credit score are
// required groups; the rest default to empty.
type financialRequest struct {
	UserID        string               `json:"userId"`
	Income        *models.Income       `json:"income"`
	Expenses      *models.Expenses     `json:"expenses"`
	Assets        models.Assets        `json:"assets"`
	Liabilities   models.Liabilities   `json:"liabilities"`
	CreditScore   *models.CreditScore  `json:"creditScore"`
	Goals         []models.Goal        `json:"goals"`
	RiskProfile   models.RiskProfile   `json:"riskProfile"`
	Tax           models.Tax           `json:"tax"`
	EmergencyFund models.EmergencyFund `json:"emergencyFund"`
}

func (req financialRequest) record() (models.FinancialRecord, error) {
	switch {
	case req.Income == nil:
		return models.FinancialRecord{}, errors.New("income is required")
	case req.Expenses == nil:
		return models.FinancialRecord{}, errors.New("expenses is required")
	case req.CreditScore == nil:
		return models.FinancialRecord{}, errors.New("creditScore is required")
	}
	return models.FinancialRecord{
		Income:        *req.Income,
		Expenses:      *req.Expenses,
		Assets:        req.Assets,
		Liabilities:   req.Liabilities,
		CreditScore:   *req.CreditScore,
		Goals:         req.Goals,
		RiskProfile:   req.RiskProfile,
		Tax:           req.Tax,
		EmergencyFund: req.EmergencyFund,
	}, nil
}

func (h *Handler) CreateFinancialData(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUser(w, r, r.URL.Query().Get("userId"), "Please provide a user ID")
	if !ok {
		return
	}

	var req financialRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var enumErr *models.EnumError
		if errors.As(err, &enumErr) {
			respondError(w, http.StatusBadRequest, enumErr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID != "" && req.UserID != userID {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}
	record, err := req.record()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.financial.Create(r.Context(), userID, record)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, validator.ErrInvalidRecord):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Financial data saved successfully",
		"data":    saved,
	})
}

func (h *Handler) GetFinancialData(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUser(w, r, r.URL.Query().Get("userId"), "")
	if !ok {
		return
	}
	record, err := h.financial.Latest(r.Context(), userID)
	if err != nil {
		h.recordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": record})
}

func (h *Handler) FinancialOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUser(w, r, r.URL.Query().Get("userId"), "")
	if !ok {
		return
	}
	totals, err := h.financial.Overview(r.Context(), userID)
	if err != nil {
		h.recordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": totals})
}

func (h *Handler) recordError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "No financial data found")
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

// targetUser resolves the user a request acts on. A claimed id must match
// the session; an empty claim falls back to the session user unless
// missingMessage is set.
func (h *Handler) targetUser(w http.ResponseWriter, r *http.Request, claimed, missingMessage string) (string, bool) {
	sessionUser, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	if claimed == "" {
		if missingMessage != "" {
			respondError(w, http.StatusBadRequest, missingMessage)
			return "", false
		}
		return sessionUser, true
	}
	if claimed != sessionUser {
		respondError(w, http.StatusForbidden, "Forbidden")
		return "", false
	}
	return sessionUser, true
}
