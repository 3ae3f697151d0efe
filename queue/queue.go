// Package queue provides the bounded result heap used for top-K ranking.
package queue

import "container/heap"

// Compile time check to ensure ResultHeap satisfies the heap interface.
var _ heap.Interface = (*ResultHeap)(nil)

// Item pairs a reference identifier with its distance to the query.
type Item struct {
	Ref      string
	Distance float64
}

// ResultHeap is a value-based max-heap over distances. Keeping the worst
// candidate on top makes it a bounded top-K collector: pushing into a full
// heap replaces the top only when the new item is better.
//
// Ties on distance are broken by reference identifier so that ranking output
// is deterministic.
type ResultHeap struct {
	items []Item
}

// New creates a result heap with capacity preallocated for k items.
func New(k int) *ResultHeap {
	return &ResultHeap{items: make([]Item, 0, k)}
}

// Len returns the number of elements in the heap.
func (h *ResultHeap) Len() int { return len(h.items) }

// Less orders worse candidates first: larger distance, then larger
// identifier.
func (h *ResultHeap) Less(i, j int) bool {
	if h.items[i].Distance != h.items[j].Distance {
		return h.items[i].Distance > h.items[j].Distance
	}
	return h.items[i].Ref > h.items[j].Ref
}

// Swap swaps the elements with indexes i and j.
func (h *ResultHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

// Push pushes the element x onto the heap.
func (h *ResultHeap) Push(x any) {
	h.items = append(h.items, x.(Item))
}

// Pop removes and returns the worst remaining element.
func (h *ResultHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// Top returns the worst element currently held.
func (h *ResultHeap) Top() (Item, bool) {
	if len(h.items) == 0 {
		return Item{}, false
	}
	return h.items[0], true
}

// PushBounded inserts an item into a heap bounded to capacity items.
// When full, the item replaces the current worst only if it is better.
func (h *ResultHeap) PushBounded(item Item, capacity int) {
	if len(h.items) < capacity {
		heap.Push(h, item)
		return
	}
	top := h.items[0]
	if item.Distance < top.Distance ||
		(item.Distance == top.Distance && item.Ref < top.Ref) {
		h.items[0] = item
		heap.Fix(h, 0)
	}
}

// Drain removes all items in worst-to-best order and returns them
// best-first.
func (h *ResultHeap) Drain() []Item {
	out := make([]Item, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Item)
	}
	return out
}
