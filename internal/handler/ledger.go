package handler

import (
	"net/http"
	"time"
)

// GetLedger returns the day-by-day projection. The optional as_of query
// parameter injects "today", which clients and tests use for stable
// output.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var asOf time.Time
	if s := r.URL.Query().Get("as_of"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	led, err := h.svc.GetLedger(r.Context(), userID, asOf)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, led)
}
