package heap

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drain(h *Heap[int]) []int {
	result := []int{}
	for v, found := h.Pop(); found; v, found = h.Pop() {
		result = append(result, v)
	}
	return result
}

func TestBasics(t *testing.T) {
	h := New(func(a, b int) bool {
		return a < b
	})
	h.Push(10)
	h.Push(4)
	h.Push(100)
	h.Push(8)
	h.Push(20)
	for _, i := range []int{4, 8, 10, 20, 100} {
		if top, found := h.Peek(); !found || top != i {
			t.Errorf("got %v, %v, want %v, true", top, found, i)
		}
		if top, found := h.Pop(); !found || top != i {
			t.Errorf("got %v, %v, want %v, true", top, found, i)
		}
	}
	if _, found := h.Peek(); found {
		t.Errorf("got %v, want false", found)
	}
	if _, found := h.Pop(); found {
		t.Errorf("got %v, want false", found)
	}
}

func TestFilter(t *testing.T) {
	h := New(func(a, b int) bool {
		return a < b
	})
	for _, v := range []int{9, 3, 7, 1, 8, 2, 6} {
		h.Push(v)
	}
	if removed := h.Filter(func(v int) bool { return v%2 == 0 }); removed != 4 {
		t.Errorf("got %v, want 4", removed)
	}
	if diff := cmp.Diff([]int{2, 6, 8}, drain(h)); diff != "" {
		t.Errorf("drain mismatch (-want +got):\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	h := New(func(a, b int) bool {
		return a < b
	})
	for _, v := range []int{5, 1, 3} {
		h.Push(v)
	}
	h.Map(func(v int) int { return -v })
	if diff := cmp.Diff([]int{-5, -3, -1}, drain(h)); diff != "" {
		t.Errorf("drain mismatch (-want +got):\n%s", diff)
	}
}

func TestAllAndClear(t *testing.T) {
	h := New(func(a, b int) bool {
		return a < b
	})
	for _, v := range []int{5, 1, 3} {
		h.Push(v)
	}
	got := slices.Sorted(h.All())
	if diff := cmp.Diff([]int{1, 3, 5}, got); diff != "" {
		t.Errorf("All mismatch (-want +got):\n%s", diff)
	}
	h.Clear()
	if h.Size() != 0 {
		t.Errorf("got %v, want 0", h.Size())
	}
}
