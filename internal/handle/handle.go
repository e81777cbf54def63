// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package handle implements a table of resources
// identified by small, reusable integer handles.
package handle

import (
	"iter"
)

// Table stores values of type T.
// Handles of removed values are reused by later
// insertions, lowest first.
// The zero value is an empty table ready for use.
type Table[T any] struct {
	used  bitmap
	items []T
	n     int
}

// Insert inserts x into t and returns its handle.
func (t *Table[T]) Insert(x T) int {
	if t.used.rem == 0 {
		// Double the capacity, one word at least.
		n := len(t.used.w)
		if n == 0 {
			n = 1
		}
		t.used.grow(n)
		t.items = append(t.items, make([]T, n*nbit)...)
	}
	h, ok := t.used.search()
	if !ok {
		panic("handle: unexpected search failure")
	}
	t.used.set(h)
	t.items[h] = x
	t.n++
	return h
}

// Remove removes the value identified by h.
// It returns false if h is not in use.
func (t *Table[T]) Remove(h int) (x T, ok bool) {
	if !t.used.isSet(h) {
		return
	}
	x, ok = t.items[h], true
	var zero T
	t.items[h] = zero
	t.used.unset(h)
	t.n--
	return
}

// Get returns the value identified by h.
func (t *Table[T]) Get(h int) (x T, ok bool) {
	if !t.used.isSet(h) {
		return
	}
	return t.items[h], true
}

// Len returns the number of handles in use.
func (t *Table[T]) Len() int { return t.n }

// All iterates over the handles in use in
// increasing order.
// t must not be modified during iteration.
func (t *Table[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for h := range t.items {
			if t.used.isSet(h) && !yield(h, t.items[h]) {
				return
			}
		}
	}
}
