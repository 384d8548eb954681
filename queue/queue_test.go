package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Some items and their priorities.
var items = []float32{0.4, 9, 0.001, 0.0534, 0.234, 2.03, 2.042, 2.532, 1.0009, 0.329, 0.193, 0.999, 0.020391, 2.0991, 1.203, 10.03, 1.039, 1.0008, 5.029, 0.789}

func TestMaxValidation(t *testing.T) {
	h := NewMax(len(items))

	for k, v := range items {
		h.PushItem(Item{Node: uint32(k), Distance: v})
	}

	maxItem := h.Top()

	assert.Equal(t, float32(10.03), maxItem.Distance)
	assert.Equal(t, uint32(15), maxItem.Node)
	assert.Equal(t, 20, h.Len())

	// Prune to the ten nearest.
	for h.Len() > 10 {
		h.PopItem()
	}

	assert.Equal(t, 10, h.Len())

	maxItem = h.Top()
	assert.Equal(t, float32(1.0008), maxItem.Distance)
	assert.Equal(t, uint32(17), maxItem.Node)

	for h.Len() > 1 {
		h.PopItem()
	}

	assert.Equal(t, float32(0.001), h.Top().Distance)
}

func TestMinValidation(t *testing.T) {
	h := NewMin(len(items))

	for k, v := range items {
		h.PushItem(Item{Node: uint32(k), Distance: v})
	}

	minItem := h.Top()

	assert.Equal(t, float32(0.001), minItem.Distance)
	assert.Equal(t, uint32(2), minItem.Node)

	prev := float32(-1)
	for h.Len() > 0 {
		item := h.PopItem()
		assert.GreaterOrEqual(t, item.Distance, prev)
		prev = item.Distance
	}
}
