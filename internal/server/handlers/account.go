// internal/server/handlers/account.go

package handlers

import (
	"context"
	"net/http"

	"fedscope/internal/domain/status"
	"fedscope/internal/pagination"
)

// AccountStore defines account storage as needed by the HTTP layer
type AccountStore interface {
	List(ctx context.Context, page, limit int) ([]status.Account, int, error)
}

// AccountHandler handles flagged-account HTTP requests
type AccountHandler struct {
	store AccountStore
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(store AccountStore) *AccountHandler {
	return &AccountHandler{store: store}
}

// GetAccounts returns the accounts that authored flagged posts
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	accounts, total, err := h.store.List(r.Context(), page, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get accounts")
		return
	}

	p, err := pagination.Calculate(page, limit, total)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithList(w, accounts, p)
}
