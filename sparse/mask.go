package sparse

import "math/bits"

// Mask512 holds one bit per voxel of a leaf (8³ = 512 voxels).
type Mask512 [8]uint64

// Mask4096 holds one bit per child of an internal node (16³ = 4096 children).
type Mask4096 [64]uint64

// SetBit sets the bit at position i.
func (m *Mask512) SetBit(i int) {
	m[i>>6] |= 1 << (i & 63)
}

// ClearBit clears the bit at position i.
func (m *Mask512) ClearBit(i int) {
	m[i>>6] &^= 1 << (i & 63)
}

// GetBit returns true if bit at position i is set.
func (m *Mask512) GetBit(i int) bool {
	return (m[i>>6] & (1 << (i & 63))) != 0
}

// CountOn returns the number of set bits.
func (m *Mask512) CountOn() int {
	count := 0
	for _, v := range m {
		count += bits.OnesCount64(v)
	}
	return count
}

// IsOff returns true if no bit is set.
func (m *Mask512) IsOff() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

// ForEachOn calls fn with the position of every set bit in increasing order.
// Iteration stops early if fn returns false.
func (m *Mask512) ForEachOn(fn func(i int) bool) bool {
	for w, v := range m {
		for v != 0 {
			i := w<<6 + bits.TrailingZeros64(v)
			if !fn(i) {
				return false
			}
			v &= v - 1
		}
	}
	return true
}

// SetBit sets the bit at position i.
func (m *Mask4096) SetBit(i int) {
	m[i>>6] |= 1 << (i & 63)
}

// GetBit returns true if bit at position i is set.
func (m *Mask4096) GetBit(i int) bool {
	return (m[i>>6] & (1 << (i & 63))) != 0
}

// CountOn returns the number of set bits.
func (m *Mask4096) CountOn() int {
	count := 0
	for _, v := range m {
		count += bits.OnesCount64(v)
	}
	return count
}

// ForEachOn calls fn with the position of every set bit in increasing order.
// Iteration stops early if fn returns false.
func (m *Mask4096) ForEachOn(fn func(i int) bool) bool {
	for w, v := range m {
		for v != 0 {
			i := w<<6 + bits.TrailingZeros64(v)
			if !fn(i) {
				return false
			}
			v &= v - 1
		}
	}
	return true
}
