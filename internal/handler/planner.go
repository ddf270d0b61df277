package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

type timeOffRequest struct {
	Name            string          `json:"name"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	CapacityPercent decimal.Decimal `json:"capacity_percent"`
}

// ListTimeOff returns upcoming time-off periods
func (h *Handler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	periods, err := h.svc.TimeOffPeriods(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, periods)
}

// CreateTimeOff handles time-off creation
func (h *Handler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req timeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}
	period := &models.TimeOffPeriod{
		UserID:          userID,
		Name:            req.Name,
		StartDate:       start,
		EndDate:         end,
		CapacityPercent: req.CapacityPercent,
	}
	if err := h.svc.CreateTimeOff(r.Context(), period); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, period)
}

// DeleteTimeOff handles time-off removal
func (h *Handler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	periodID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid period id")
		return
	}
	if err := h.svc.DeleteTimeOff(r.Context(), userID, periodID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type plannedExpenseRequest struct {
	Name           string          `json:"name"`
	PlannedDate    string          `json:"planned_date"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
	IsScheduled    bool            `json:"is_scheduled"`
}

func (req plannedExpenseRequest) toModel(userID, expenseID int64) (*models.PlannedExpense, error) {
	planned, err := time.Parse("2006-01-02", req.PlannedDate)
	if err != nil {
		return nil, err
	}
	return &models.PlannedExpense{
		ID:             expenseID,
		UserID:         userID,
		Name:           req.Name,
		PlannedDate:    planned,
		BudgetedAmount: req.BudgetedAmount,
		IsScheduled:    req.IsScheduled,
	}, nil
}

// ListPlannedExpenses returns expenses in the forward window
func (h *Handler) ListPlannedExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	expenses, err := h.svc.PlannedExpenses(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, expenses)
}

// CreatePlannedExpense handles planned expense creation
func (h *Handler) CreatePlannedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req plannedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	expense, err := req.toModel(userID, 0)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "planned_date must be YYYY-MM-DD")
		return
	}
	if err := h.svc.CreatePlannedExpense(r.Context(), expense); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, expense)
}

// UpdatePlannedExpense handles planned expense edits
func (h *Handler) UpdatePlannedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	var req plannedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	expense, err := req.toModel(userID, expenseID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "planned_date must be YYYY-MM-DD")
		return
	}
	if err := h.svc.UpdatePlannedExpense(r.Context(), expense); err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, expense)
}

// DeletePlannedExpense handles planned expense removal
func (h *Handler) DeletePlannedExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := h.svc.DeletePlannedExpense(r.Context(), userID, expenseID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPreference reads one UI flag
func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	pref, err := h.svc.GetPreference(r.Context(), userID, mux.Vars(r)["key"])
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pref)
}

type preferenceRequest struct {
	Value string `json:"value"`
}

// SetPreference upserts one UI flag
func (h *Handler) SetPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pref, err := h.svc.SetPreference(r.Context(), userID, mux.Vars(r)["key"], req.Value)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pref)
}
