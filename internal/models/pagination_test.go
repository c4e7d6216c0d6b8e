package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage_PagesCount(t *testing.T) {
	tests := []struct {
		name       string
		pageSize   int
		totalCount int
		want       int
	}{
		{"exact fit", 10, 30, 3},
		{"partial last page", 10, 31, 4},
		{"empty", 10, 0, 0},
		{"single item", 10, 1, 1},
		{"zero page size", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage[string](PageQuery{PageNumber: 1, PageSize: tt.pageSize}, tt.totalCount, nil)
			assert.Equal(t, tt.want, page.PagesCount)
		})
	}
}

func TestNewPage_NilItemsBecomesEmptySlice(t *testing.T) {
	page := NewPage[string](PageQuery{PageNumber: 1, PageSize: 10}, 0, nil)

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestPageQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, PageQuery{PageNumber: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, PageQuery{PageNumber: 3, PageSize: 10}.Offset())
}
