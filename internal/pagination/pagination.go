// internal/pagination/pagination.go

package pagination

import (
	"fmt"
	"math"
)

// Pagination describes one page of a result set.
type Pagination struct {
	Page         int `json:"page"`
	Pages        int `json:"pages"`
	OnPage       int `json:"on_page"`
	TotalResults int `json:"total_results"`
}

// Calculate derives pagination metadata for a page/limit window over
// totalCount rows. Pages is never below 1 even for an empty result set.
func Calculate(page, limit, totalCount int) (Pagination, error) {
	if limit <= 0 {
		return Pagination{}, fmt.Errorf("limit must be greater than zero, got %d", limit)
	}

	pages := 1
	if totalCount > 0 {
		pages = int(math.Ceil(float64(totalCount) / float64(limit)))
	}

	onPage := totalCount - (page-1)*limit
	if onPage > limit {
		onPage = limit
	}

	return Pagination{
		Page:         page,
		Pages:        pages,
		OnPage:       onPage,
		TotalResults: totalCount,
	}, nil
}
