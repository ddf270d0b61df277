package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

type incomeSourceRequest struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Frequency  string          `json:"frequency"`
	AnchorDate string          `json:"anchor_date"`
}

func (req incomeSourceRequest) toModel(userID, sourceID int64) (*models.IncomeSource, error) {
	anchor, err := time.Parse("2006-01-02", req.AnchorDate)
	if err != nil {
		return nil, err
	}
	return &models.IncomeSource{
		ID:         sourceID,
		UserID:     userID,
		Name:       req.Name,
		Amount:     req.Amount,
		Frequency:  req.Frequency,
		AnchorDate: anchor,
	}, nil
}

// ListIncomeSources returns the user's income rules
func (h *Handler) ListIncomeSources(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	sources, err := h.svc.IncomeSources(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, sources)
}

// CreateIncomeSource handles income rule creation
func (h *Handler) CreateIncomeSource(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req incomeSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	source, err := req.toModel(userID, 0)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "anchor_date must be YYYY-MM-DD")
		return
	}
	if err := h.svc.CreateIncomeSource(r.Context(), source); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, source)
}

// UpdateIncomeSource handles income rule edits
func (h *Handler) UpdateIncomeSource(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	sourceID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	var req incomeSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	source, err := req.toModel(userID, sourceID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "anchor_date must be YYYY-MM-DD")
		return
	}
	if err := h.svc.UpdateIncomeSource(r.Context(), source); err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, source)
}

// DeleteIncomeSource handles income rule removal
func (h *Handler) DeleteIncomeSource(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	sourceID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	if err := h.svc.DeleteIncomeSource(r.Context(), userID, sourceID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type paycheckRequest struct {
	SourceID int64           `json:"source_id"`
	PayDate  string          `json:"pay_date"`
	Amount   decimal.Decimal `json:"amount"`
}

// ListPaychecks returns recorded paychecks
func (h *Handler) ListPaychecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	paychecks, err := h.svc.Paychecks(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, paychecks)
}

// CreatePaycheck records an actual paycheck
func (h *Handler) CreatePaycheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req paycheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payDate, err := time.Parse("2006-01-02", req.PayDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "pay_date must be YYYY-MM-DD")
		return
	}
	paycheck := &models.Paycheck{
		UserID:   userID,
		SourceID: req.SourceID,
		PayDate:  payDate,
		Amount:   req.Amount,
	}
	if err := h.svc.CreatePaycheck(r.Context(), paycheck); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, paycheck)
}

// DeletePaycheck removes a recorded paycheck
func (h *Handler) DeletePaycheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	paycheckID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid paycheck id")
		return
	}
	if err := h.svc.DeletePaycheck(r.Context(), userID, paycheckID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
