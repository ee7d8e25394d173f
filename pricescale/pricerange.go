// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import "math"

// PriceRange is a value range of a price scale, in the value space of the scale mode.
type PriceRange struct {
	Min float64
	Max float64
}

func NewPriceRange(minValue, maxValue float64) PriceRange {
	return PriceRange{Min: minValue, Max: maxValue}
}

func (r PriceRange) Length() float64 {
	return r.Max - r.Min
}

func (r PriceRange) IsEmpty() bool {
	return r.Max == r.Min || math.IsNaN(r.Max) || math.IsNaN(r.Min)
}

// Merge returns the union of both ranges.
func (r PriceRange) Merge(other PriceRange) PriceRange {
	return PriceRange{Min: math.Min(r.Min, other.Min), Max: math.Max(r.Max, other.Max)}
}

func (r PriceRange) ScaleAroundCenter(coeff float64) PriceRange {
	if math.IsNaN(coeff) || math.IsInf(coeff, 0) {
		return r
	}
	if r.Max-r.Min == 0 {
		return r
	}
	center := (r.Max + r.Min) * 0.5
	return PriceRange{
		Min: center + (r.Min-center)*coeff,
		Max: center + (r.Max-center)*coeff,
	}
}

func (r PriceRange) Shift(delta float64) PriceRange {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return r
	}
	return PriceRange{Min: r.Min + delta, Max: r.Max + delta}
}

// Optional ranges are passed as pointers, nil meaning "no range".
func rangesEqual(a, b *PriceRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func mergeRanges(a, b *PriceRange) *PriceRange {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	merged := a.Merge(*b)
	return &merged
}
