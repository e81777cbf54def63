// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package handle

import (
	"math/bits"
)

// nbit is the number of bits in a bitmap word.
const nbit = 32

// bitmap is a growable bit vector.
// A set bit marks a handle in use.
type bitmap struct {
	w   []uint32
	rem int
}

// len returns the number of bits in the map.
func (m *bitmap) len() int { return len(m.w) * nbit }

// grow appends nplus unset words to the map.
func (m *bitmap) grow(nplus int) {
	if nplus > 0 {
		m.rem += nplus * nbit
		m.w = append(m.w, make([]uint32, nplus)...)
	}
}

func (m *bitmap) set(index int) {
	i, b := index/nbit, uint32(1)<<(index%nbit)
	if m.w[i]&b == 0 {
		m.w[i] |= b
		m.rem--
	}
}

func (m *bitmap) unset(index int) {
	i, b := index/nbit, uint32(1)<<(index%nbit)
	if m.w[i]&b != 0 {
		m.w[i] &^= b
		m.rem++
	}
}

func (m *bitmap) isSet(index int) bool {
	if index < 0 || index >= m.len() {
		return false
	}
	return m.w[index/nbit]&(1<<(index%nbit)) != 0
}

// search locates the lowest unset bit.
// It fails only when rem is 0.
func (m *bitmap) search() (index int, ok bool) {
	if m.rem == 0 {
		return
	}
	for i, x := range m.w {
		if x == ^uint32(0) {
			continue
		}
		return i*nbit + bits.TrailingZeros32(^x), true
	}
	return
}
