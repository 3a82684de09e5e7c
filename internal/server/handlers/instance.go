// internal/server/handlers/instance.go

package handlers

import (
	"context"
	"net/http"

	"fedscope/internal/domain/instance"
	"fedscope/internal/pagination"
)

// InstanceStore defines instance storage as needed by the HTTP layer
type InstanceStore interface {
	List(ctx context.Context, page, limit int) ([]instance.Instance, int, error)
}

// InstanceHandler handles instance catalog HTTP requests
type InstanceHandler struct {
	store InstanceStore
}

// NewInstanceHandler creates a new instance handler
func NewInstanceHandler(store InstanceStore) *InstanceHandler {
	return &InstanceHandler{store: store}
}

// GetInstances returns the known-instances snapshot, most active first
func (h *InstanceHandler) GetInstances(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	instances, total, err := h.store.List(r.Context(), page, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get instances")
		return
	}

	p, err := pagination.Calculate(page, limit, total)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithList(w, instances, p)
}
