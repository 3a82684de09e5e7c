// internal/server/handlers/trend.go

package handlers

import (
	"context"
	"net/http"

	"fedscope/internal/domain/trend"
	"fedscope/internal/pagination"
)

// TrendStore defines trend storage as needed by the HTTP layer
type TrendStore interface {
	ListPopular(ctx context.Context, page, limit int) ([]trend.Trend, int, error)
	ListSuspicious(ctx context.Context, instanceURL string, page, limit int) ([]trend.Suspicious, int, error)
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	store TrendStore
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(store TrendStore) *TrendHandler {
	return &TrendHandler{store: store}
}

// GetTrends returns the popular-trend snapshot, paginated
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	trends, total, err := h.store.ListPopular(r.Context(), page, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get trends")
		return
	}

	p, err := pagination.Calculate(page, limit, total)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithList(w, trends, p)
}

// GetSuspiciousTrends returns flagged trends, optionally filtered by the
// instance they were first seen on
func (h *TrendHandler) GetSuspiciousTrends(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	instanceURL := r.URL.Query().Get("instance_url")

	trends, total, err := h.store.ListSuspicious(r.Context(), instanceURL, page, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get suspicious trends")
		return
	}

	p, err := pagination.Calculate(page, limit, total)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithList(w, trends, p)
}
