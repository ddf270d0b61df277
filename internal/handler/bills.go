package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

type billRequest struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	NextDueDate string          `json:"next_due_date"`
	IsVariable  bool            `json:"is_variable"`
}

func (req billRequest) toModel(userID, billID int64) (*models.Bill, error) {
	due, err := parseDate(req.NextDueDate)
	if err != nil {
		return nil, err
	}
	return &models.Bill{
		ID:          billID,
		UserID:      userID,
		Name:        req.Name,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		NextDueDate: due,
		IsVariable:  req.IsVariable,
	}, nil
}

// CreateBill handles bill creation
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bill, err := req.toModel(userID, 0)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "next_due_date must be YYYY-MM-DD")
		return
	}
	if err := h.svc.CreateBill(r.Context(), bill); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, bill)
}

// UpdateBill handles bill edits
func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	billID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bill, err := req.toModel(userID, billID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "next_due_date must be YYYY-MM-DD")
		return
	}
	if err := h.svc.UpdateBill(r.Context(), bill); err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, bill)
}

// DeleteBill handles bill removal
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	billID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	if err := h.svc.DeleteBill(r.Context(), userID, billID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLaterBills returns unscheduled bills
func (h *Handler) ListLaterBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	bills, err := h.svc.UndatedBills(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, bills)
}

type paymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IsPartial      bool            `json:"is_partial"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// RecordPayment handles payment recording for a bill
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	billID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payment, err := h.svc.RecordPayment(r.Context(), userID, billID, req.Amount, req.IsPartial, req.IdempotencyKey)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, payment)
}

type deferRequest struct {
	Month string `json:"month"` // "YYYY-MM", defaults to the current month
}

// DeferBill handles bill deferral for a month
func (h *Handler) DeferBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	billID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	var req deferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.DeferBill(r.Context(), userID, billID, req.Month); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
