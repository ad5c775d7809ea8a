package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{name: "no rows", total: 0, limit: 10, want: 0},
		{name: "exact fit", total: 10, limit: 10, want: 1},
		{name: "one over", total: 11, limit: 10, want: 2},
		{name: "under one page", total: 3, limit: 10, want: 1},
		{name: "limit one", total: 5, limit: 1, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit))
		})
	}
}

func TestNewPage(t *testing.T) {
	rows := []string{"a", "b"}
	page := NewPage(rows, 7, Pagination{Page: 2, Limit: 2})

	assert.Equal(t, rows, page.Rows)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 4, page.TotalPages)
}

func TestNewPage_BeyondLastPage(t *testing.T) {
	// A page past the end yields zero rows but keeps the real total.
	page := NewPage([]string{}, 7, Pagination{Page: 10, Limit: 2})

	assert.Empty(t, page.Rows)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 4, page.TotalPages)
}
