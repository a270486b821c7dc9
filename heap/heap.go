package heap

import "iter"

type Heap[T any] struct {
	data []T
	less func(a, b T) bool // Custom comparison function for generic type
}

func New[T any](less func(a, b T) bool) *Heap[T] {
	return &Heap[T]{
		data: []T{},
		less: less,
	}
}

func (h *Heap[T]) Push(value T) {
	h.data = append(h.data, value)
	h.bubbleUp(len(h.data) - 1)
}

func (h *Heap[T]) Pop() (T, bool) {
	if len(h.data) == 0 {
		var zero T
		return zero, false
	}
	top := h.data[0]
	last := len(h.data) - 1
	h.data[0] = h.data[last]
	var zero T
	h.data[last] = zero
	h.data = h.data[:last]
	h.bubbleDown(0)
	return top, true
}

func (h *Heap[T]) Peek() (T, bool) {
	if len(h.data) == 0 {
		var zero T
		return zero, false
	}
	return h.data[0], true
}

// All iterates the elements in storage order, not priority order.
func (h *Heap[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range h.data {
			if !yield(v) {
				return
			}
		}
	}
}

// Filter drops every element for which keep returns false and returns how
// many were dropped.
func (h *Heap[T]) Filter(keep func(T) bool) int {
	kept := h.data[:0]
	for _, v := range h.data {
		if keep(v) {
			kept = append(kept, v)
		}
	}
	removed := len(h.data) - len(kept)
	var zero T
	for i := len(kept); i < len(h.data); i++ {
		h.data[i] = zero
	}
	h.data = kept
	h.heapify()
	return removed
}

// Map replaces every element with f(element) and restores the heap order.
func (h *Heap[T]) Map(f func(T) T) {
	for i, v := range h.data {
		h.data[i] = f(v)
	}
	h.heapify()
}

func (h *Heap[T]) Clear() {
	h.data = []T{}
}

func (h *Heap[T]) heapify() {
	for i := len(h.data)/2 - 1; i >= 0; i-- {
		h.bubbleDown(i)
	}
}

func (h *Heap[T]) bubbleUp(index int) {
	for index > 0 {
		parent := (index - 1) / 2
		if h.less(h.data[index], h.data[parent]) {
			h.data[index], h.data[parent] = h.data[parent], h.data[index]
			index = parent
		} else {
			break
		}
	}
}

func (h *Heap[T]) bubbleDown(index int) {
	size := len(h.data)
	for {
		left := 2*index + 1
		right := 2*index + 2
		smallest := index

		if left < size && h.less(h.data[left], h.data[smallest]) {
			smallest = left
		}
		if right < size && h.less(h.data[right], h.data[smallest]) {
			smallest = right
		}
		if smallest == index {
			break
		}

		h.data[index], h.data[smallest] = h.data[smallest], h.data[index]
		index = smallest
	}
}

func (h *Heap[T]) Size() int {
	return len(h.data)
}
