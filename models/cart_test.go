package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_Recompute(t *testing.T) {
	tests := []struct {
		name      string
		items     []CartItem
		wantTotal float64
		wantCount int
	}{
		{"empty cart", nil, 0, 0},
		{
			"single line",
			[]CartItem{{Price: 500, Quantity: 2}},
			1000, 2,
		},
		{
			"multiple lines",
			[]CartItem{
				{Price: 500, Quantity: 2},
				{Price: 99.50, Quantity: 1},
				{Price: 10, Quantity: 3},
			},
			1129.50, 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A stale stored total must never survive a recompute.
			cart := Cart{Items: tt.items, TotalCartValue: 9999}
			cart.Recompute()
			assert.InDelta(t, tt.wantTotal, cart.TotalCartValue, 1e-9)
			assert.Equal(t, tt.wantCount, cart.ItemCount())
		})
	}
}

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{Price: 249.99, Quantity: 4}
	assert.InDelta(t, 999.96, item.Subtotal(), 1e-9)
}
