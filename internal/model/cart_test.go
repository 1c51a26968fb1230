package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_TotalItemCount(t *testing.T) {
	assert.Equal(t, 0, Cart{}.TotalItemCount())

	cart := Cart{Items: []CartItem{
		{ID: "a", Quantity: 2},
		{ID: "b", Quantity: 3},
	}}
	assert.Equal(t, 5, cart.TotalItemCount())
}

func TestCart_Contains(t *testing.T) {
	cart := Cart{Items: []CartItem{{ID: "a", ProductID: "p1"}}}

	assert.True(t, cart.Contains("p1"))
	assert.False(t, cart.Contains("p2"))
	assert.False(t, Cart{}.Contains("p1"))
}

func TestCart_Item(t *testing.T) {
	cart := Cart{Items: []CartItem{{ID: "a", ProductID: "p1", Quantity: 1}}}

	item, ok := cart.Item("a")
	assert.True(t, ok)
	assert.Equal(t, "p1", item.ProductID)

	_, ok = cart.Item("b")
	assert.False(t, ok)
}

func TestQuantityRangeError_Messages(t *testing.T) {
	err := &QuantityRangeError{Requested: 6, Min: 1, Max: 5}
	assert.Equal(t, "quantity 6 out of range [1, 5]", err.Error())

	err = &QuantityRangeError{Requested: 0, Min: 1, Max: 0}
	assert.Equal(t, "quantity 0 must be at least 1", err.Error())
}
