// internal/pagination/pagination_test.go

package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int
		want  Pagination
	}{
		{
			name: "middle page full",
			page: 2, limit: 10, total: 25,
			want: Pagination{Page: 2, Pages: 3, OnPage: 10, TotalResults: 25},
		},
		{
			name: "last page partial",
			page: 3, limit: 10, total: 25,
			want: Pagination{Page: 3, Pages: 3, OnPage: 5, TotalResults: 25},
		},
		{
			name: "single page",
			page: 1, limit: 20, total: 7,
			want: Pagination{Page: 1, Pages: 1, OnPage: 7, TotalResults: 7},
		},
		{
			name: "empty result set still has one page",
			page: 1, limit: 20, total: 0,
			want: Pagination{Page: 1, Pages: 1, OnPage: 0, TotalResults: 0},
		},
		{
			name: "exact multiple",
			page: 2, limit: 5, total: 10,
			want: Pagination{Page: 2, Pages: 2, OnPage: 5, TotalResults: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.page, tt.limit, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateInvalidLimit(t *testing.T) {
	_, err := Calculate(1, 0, 10)
	assert.Error(t, err)

	_, err = Calculate(1, -5, 10)
	assert.Error(t, err)
}
