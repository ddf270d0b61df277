package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tmaly1980/banked/internal/models"
)

type accountRequest struct {
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	SpendableLimit decimal.Decimal `json:"spendable_limit"`
}

// ListAccounts returns the user's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	accounts, err := h.svc.Accounts(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, accounts)
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account := &models.Account{
		UserID:         userID,
		Name:           req.Name,
		Balance:        req.Balance,
		SpendableLimit: req.SpendableLimit,
	}
	if err := h.svc.CreateAccount(r.Context(), account); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, account)
}

type linkRequest struct {
	InstitutionURL string `json:"institution_url"`
	OrgName        string `json:"org_name"`
	FID            string `json:"fid"`
	BankID         string `json:"bank_id"`
	AcctID         string `json:"acct_id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
}

// LinkAccount stores institution credentials for an account
func (h *Handler) LinkAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err = h.svc.LinkAccount(r.Context(), userID, accountID, req.InstitutionURL, req.OrgName, req.FID, req.BankID, req.AcctID, req.Username, req.Password)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshAccount pulls a fresh balance over OFX
func (h *Handler) RefreshAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	account, err := h.svc.RefreshAccountBalance(r.Context(), userID, accountID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, account)
}
