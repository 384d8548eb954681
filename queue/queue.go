// Package queue provides the distance-ordered heap used by graph traversal.
package queue

import "container/heap"

// Compile time check to ensure PriorityQueue satisfies the heap interface.
var _ heap.Interface = (*PriorityQueue)(nil)

// Item is a graph node paired with its distance to the query.
type Item struct {
	Node     uint32  // Internal node id.
	Distance float32 // Priority of the item.
}

// PriorityQueue implements heap.Interface over Items.
//
// With Order set to true the queue is a max-heap (farthest item on top),
// otherwise it is a min-heap (nearest item on top).
type PriorityQueue struct {
	Order bool
	Items []Item
}

// NewMax returns an empty max-heap with room for capacity items.
func NewMax(capacity int) *PriorityQueue {
	return &PriorityQueue{Order: true, Items: make([]Item, 0, capacity)}
}

// NewMin returns an empty min-heap with room for capacity items.
func NewMin(capacity int) *PriorityQueue {
	return &PriorityQueue{Order: false, Items: make([]Item, 0, capacity)}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.Items) }

// Less reports whether the element with index i should sort before the element with index j.
func (pq *PriorityQueue) Less(i, j int) bool {
	if pq.Order {
		return pq.Items[i].Distance > pq.Items[j].Distance
	}

	return pq.Items[i].Distance < pq.Items[j].Distance
}

// Swap swaps the elements with indexes i and j.
func (pq *PriorityQueue) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
}

// Push implements heap.Interface. Use PushItem instead.
func (pq *PriorityQueue) Push(x any) {
	item, _ := x.(Item)
	pq.Items = append(pq.Items, item)
}

// Pop implements heap.Interface. Use PopItem instead.
func (pq *PriorityQueue) Pop() any {
	old := pq.Items
	n := len(old)
	item := old[n-1]
	pq.Items = old[:n-1]

	return item
}

// PushItem adds an item while keeping the heap ordered.
func (pq *PriorityQueue) PushItem(item Item) {
	heap.Push(pq, item)
}

// PopItem removes and returns the top item. It panics on an empty queue.
func (pq *PriorityQueue) PopItem() Item {
	item, _ := heap.Pop(pq).(Item)
	return item
}

// Top returns the top item without removing it. It panics on an empty queue.
func (pq *PriorityQueue) Top() Item {
	return pq.Items[0]
}

