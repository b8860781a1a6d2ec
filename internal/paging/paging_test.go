package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateClampsPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name       string
		page       int
		size       int
		wantPage   int
		wantTotal  int
		wantItems  []string
	}{
		{name: "negative page clamps to first", page: -3, size: 2, wantPage: 1, wantTotal: 3, wantItems: []string{"a", "b"}},
		{name: "zero page clamps to first", page: 0, size: 2, wantPage: 1, wantTotal: 3, wantItems: []string{"a", "b"}},
		{name: "middle page", page: 2, size: 2, wantPage: 2, wantTotal: 3, wantItems: []string{"c", "d"}},
		{name: "overflow clamps to last", page: 99, size: 2, wantPage: 3, wantTotal: 3, wantItems: []string{"e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantTotal, got.TotalPages)
			assert.Equal(t, tt.wantItems, got.Items)
			assert.Equal(t, len(items), got.TotalItems)
		})
	}
}

func TestPaginateEmptyList(t *testing.T) {
	got := Paginate([]int{}, 5, 10)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.TotalPages)
	assert.Empty(t, got.Items)
}

func TestPaginateDefaultsPageSize(t *testing.T) {
	items := make([]int, 20)
	got := Paginate(items, 1, 0)
	assert.Equal(t, DefaultPageSize, got.PageSize)
	assert.Len(t, got.Items, DefaultPageSize)
}
