// internal/server/handlers/helpers.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fedscope/internal/pagination"
)

// envelope is the shape of every paginated list response
type envelope struct {
	Results    any                   `json:"results"`
	Pagination pagination.Pagination `json:"pagination"`
}

const (
	defaultPage  = 1
	defaultLimit = 20
)

// pageParams reads page/limit from the query string, falling back to
// defaults when absent or unparseable. A non-positive limit is rejected
// before any storage call; ok is false once the 400 has been written.
func pageParams(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	page = defaultPage
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = v
	}
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = v
	}
	if limit <= 0 {
		respondWithError(w, http.StatusBadRequest, "limit must be greater than zero")
		return 0, 0, false
	}
	return page, limit, true
}

// respondWithList writes the standard paginated envelope
func respondWithList(w http.ResponseWriter, results any, p pagination.Pagination) {
	respondWithJSON(w, http.StatusOK, envelope{Results: results, Pagination: p})
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
