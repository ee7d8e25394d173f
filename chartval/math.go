// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"math"
	"strconv"

	"github.com/ericlagergren/decimal"
	"golang.org/x/exp/constraints"
)

const NearZero = 0.000001

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T Number](value, minVal, maxVal T) T {
	return min(max(value, minVal), maxVal)
}

func IsInteger(v float64) bool {
	return !math.IsInf(v, 0) && math.Trunc(v) == v
}

// IsBaseDecimal returns true if value is a power of ten (including 1).
func IsBaseDecimal(value int) bool {
	if value < 0 {
		return false
	}
	for current := value; current > 1; current /= 10 {
		if current%10 != 0 {
			return false
		}
	}
	return true
}

func GreaterOrEqual(x1, x2, epsilon float64) bool {
	return x2-x1 <= epsilon
}

func Equal(x1, x2, epsilon float64) bool {
	return math.Abs(x1-x2) < epsilon
}

func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// The builtin decimal.Big conversion from float64 is an "exact" conversion, and useless for our cases.
// Therefore, convert using string conversion, even though this requires memory allocation.
// See also https://github.com/ericlagergren/decimal/issues/142

// Convert float to string and then to decimal.
func ConvertFloatToDecimal(v float64, bitSize int) *decimal.Big {
	d, _ := new(decimal.Big).SetString(strconv.FormatFloat(v, 'f', -1, bitSize))
	return d
}

// ConvertDecimalToFloat returns NaN for nil or non-convertible values.
func ConvertDecimalToFloat(d *decimal.Big) float64 {
	if d == nil || d.IsNaN(0) {
		return math.NaN()
	}
	v, ok := d.Float64()
	if !ok {
		return math.NaN()
	}
	return v
}

// RoundHalfAway rounds v to the nearest integer, halves away from zero.
// Rounding is done on the decimal representation of v.
func RoundHalfAway(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d := ConvertFloatToDecimal(v, 64)
	d.Context.RoundingMode = decimal.ToNearestAway
	// Call Quantize twice, otherwise one digit may be missing, see https://github.com/ericlagergren/decimal/issues/151
	d.Quantize(0).Quantize(0)
	return ConvertDecimalToFloat(d)
}

func IndexOf[T comparable](collection []T, el T) int {
	for i, x := range collection {
		if x == el {
			return i
		}
	}
	return -1
}
