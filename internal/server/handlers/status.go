// internal/server/handlers/status.go

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fedscope/internal/adapter/storage"
	"fedscope/internal/domain/status"
	"fedscope/internal/pagination"
)

// StatusStore defines status storage as needed by the HTTP layer
type StatusStore interface {
	ListToCheck(ctx context.Context, page, limit int) ([]status.ToCheck, int, error)
	GetToCheck(ctx context.Context, id string) (*status.ToCheck, error)
}

// StatusHandler handles flagged-status HTTP requests
type StatusHandler struct {
	store StatusStore
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(store StatusStore) *StatusHandler {
	return &StatusHandler{store: store}
}

// GetSuspiciousStatuses returns the flagged statuses queued for review,
// newest first
func (h *StatusHandler) GetSuspiciousStatuses(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	statuses, total, err := h.store.ListToCheck(r.Context(), page, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get statuses")
		return
	}

	p, err := pagination.Calculate(page, limit, total)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithList(w, statuses, p)
}

// GetSuspiciousStatus returns one flagged status with any stored verdicts
func (h *StatusHandler) GetSuspiciousStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing status ID")
		return
	}

	st, err := h.store.GetToCheck(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Status not found")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get status")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, st)
}
