package quarter

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with one
// quarter. Quarters are unique and the series is always sorted.
type History[T float32 | float64 | int64 | string] struct {
	quarters []Quarter
	values   []T
}

// Len returns the number of points in the history.
func (h *History[T]) Len() int { return len(h.quarters) }

// Latest returns the latest quarter and value, or zero values when empty.
func (h *History[T]) Latest() (Quarter, T) {
	last := len(h.quarters) - 1
	if last < 0 {
		return Quarter{}, *new(T)
	}
	return h.quarters[last], h.values[last]
}

// First returns the earliest quarter and value, or zero values when empty.
func (h *History[T]) First() (Quarter, T) {
	if len(h.quarters) == 0 {
		return Quarter{}, *new(T)
	}
	return h.quarters[0], h.values[0]
}

// Append adds a point to the history. An existing value at that quarter is
// overwritten, giving priority to the last data seen.
func (h *History[T]) Append(q Quarter, v T) *History[T] {
	if i := slices.Index(h.quarters, q); i >= 0 {
		h.values[i] = v
		return h
	}
	i, _ := slices.BinarySearchFunc(h.quarters, q, Quarter.Compare)
	h.quarters = slices.Insert(h.quarters, i, q)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at quarter q and true, or the zero value and false.
func (h *History[T]) Get(q Quarter) (T, bool) {
	if i := slices.Index(h.quarters, q); i >= 0 {
		return h.values[i], true
	}
	return *new(T), false
}

// Values returns an iterator over all quarter/value pairs in chronological order.
func (h *History[T]) Values() iter.Seq2[Quarter, T] {
	return func(yield func(Quarter, T) bool) {
		for i, q := range h.quarters {
			if !yield(q, h.values[i]) {
				return
			}
		}
	}
}
