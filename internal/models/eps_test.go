// internal/models/eps_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedTotal(t *testing.T) {
	tests := []struct {
		name     string
		eps      *EPS
		total    int64
		expected int64
	}{
		{"nil eps passes total through", nil, 10000, 10000},
		{"zero discount", &EPS{Discount: 0}, 10000, 10000},
		{"ten percent", &EPS{Discount: 10}, 10000, 9000},
		{"rounds down", &EPS{Discount: 15}, 333, 283},
		{"exactly divisible stays exact", &EPS{Discount: 6}, 2150, 2021},
		{"fractional percent", &EPS{Discount: 2.5}, 10000, 9750},
		{"full discount", &EPS{Discount: 100}, 10000, 0},
		{"negative discount ignored", &EPS{Discount: -5}, 10000, 10000},
		{"zero total", &EPS{Discount: 20}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eps.DiscountedTotal(tt.total))
		})
	}
}
