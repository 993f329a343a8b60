package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       PageRequest
		offset     int
	}{
		{"defaults", 0, 0, PageRequest{Page: 1, Size: DefaultPageSize}, 0},
		{"third page", 3, 5, PageRequest{Page: 3, Size: 5}, 10},
		{"negative size", 2, -1, PageRequest{Page: 2, Size: DefaultPageSize}, 10},
		{"size capped", 1, 1000, PageRequest{Page: 1, Size: MaxPageSize}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageRequest(tt.page, tt.size)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offset, got.Offset())
		})
	}

	assert.Equal(t, 3, PageRequest{Page: 2, Size: 10}.TotalPages(21))
	assert.Equal(t, 0, PageRequest{Page: 1, Size: 10}.TotalPages(0))
	assert.Equal(t, 0, PageRequest{}.TotalPages(5))
}
