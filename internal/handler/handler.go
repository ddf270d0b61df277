// Package handler exposes the REST surface. Handlers stay thin: decode,
// delegate to the service, encode. Failures surface as JSON errors and
// leave client state untouched; there is no retry machinery.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tmaly1980/banked/internal/middleware"
	"github.com/tmaly1980/banked/internal/repository"
	"github.com/tmaly1980/banked/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

// serviceError maps service/repository failures onto HTTP statuses.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "not found")
		return
	}
	h.respondError(w, http.StatusInternalServerError, err.Error())
}

// currentUser pulls the authenticated user id set by the auth middleware.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "not authenticated")
		return 0, false
	}
	return userID, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// parseDate reads a "YYYY-MM-DD" value; empty is allowed and returns nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
