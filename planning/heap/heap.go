// Package heap implements a generic binary min-heap keyed by a
// caller-supplied ordering. It is the reusable priority-queue capability
// that the job-graph ready frontier is built on top of.
package heap

// Heap is a binary min-heap over a slice of T, ordered by less. Stability
// is not guaranteed; tie-breaking is less's job.
type Heap[T any] struct {
	items []T
	less  func(a, b T) bool
}

// New builds a heap from initial in O(n) by sifting down from the last
// parent index to the root. initial is not copied defensively by the
// caller's choice; New takes ownership of it.
func New[T any](initial []T, less func(a, b T) bool) *Heap[T] {
	h := &Heap[T]{items: initial, less: less}
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
	return h
}

// Len returns the number of items currently in the heap.
func (h *Heap[T]) Len() int {
	return len(h.items)
}

// IsEmpty reports whether the heap holds no items.
func (h *Heap[T]) IsEmpty() bool {
	return len(h.items) == 0
}

// Add inserts x and restores the heap property.
func (h *Heap[T]) Add(x T) {
	h.items = append(h.items, x)
	h.siftUp(len(h.items) - 1)
}

// ExtractMin removes and returns the minimum element. The second return
// value is false if the heap was empty, in which case the first return
// value is the zero value of T.
func (h *Heap[T]) ExtractMin() (T, bool) {
	var zero T
	n := len(h.items)
	if n == 0 {
		return zero, false
	}

	min := h.items[0]
	last := n - 1
	h.items[0] = h.items[last]
	h.items[last] = zero
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return min, true
}

// Clone returns a heap with an independent backing slice but the same
// ordering. Mutating the clone never affects the receiver, or vice versa.
func (h *Heap[T]) Clone() *Heap[T] {
	items := make([]T, len(h.items))
	copy(items, h.items)
	return &Heap[T]{items: items, less: h.less}
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i

		if left < n && h.less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && h.less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
