// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

// Range is a closed interval [Left, Right].
type Range[T Number] struct {
	Left  T
	Right T
}

func NewRange[T Number](left, right T) Range[T] {
	if left > right {
		panic("range right should be >= left")
	}
	return Range[T]{Left: left, Right: right}
}

func (r Range[T]) Count() T {
	return r.Right - r.Left + 1
}

func (r Range[T]) Contains(index T) bool {
	return r.Left <= index && index <= r.Right
}

// Optional ranges are passed as pointers, nil meaning "no range".
func RangesEqual[T Number](a, b *Range[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
