// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import "math"

// LogFormula keeps the logarithmic transform well-defined near zero.
type LogFormula struct {
	LogicalOffset float64
	CoordOffset   float64
}

var defaultLogFormula = LogFormula{LogicalOffset: 4, CoordOffset: 0.0001}

func FromPercent(value, baseValue float64) float64 {
	if baseValue < 0 {
		value = -value
	}
	return (value/100)*baseValue + baseValue
}

func ToPercent(value, baseValue float64) float64 {
	result := 100 * (value - baseValue) / baseValue
	if baseValue < 0 {
		return -result
	}
	return result
}

func ToPercentRange(r PriceRange, baseValue float64) PriceRange {
	return NewPriceRange(ToPercent(r.Min, baseValue), ToPercent(r.Max, baseValue))
}

func FromIndexedTo100(value, baseValue float64) float64 {
	value -= 100
	if baseValue < 0 {
		value = -value
	}
	return (value/100)*baseValue + baseValue
}

func ToIndexedTo100(value, baseValue float64) float64 {
	result := 100*(value-baseValue)/baseValue + 100
	if baseValue < 0 {
		return -result
	}
	return result
}

func ToIndexedTo100Range(r PriceRange, baseValue float64) PriceRange {
	return NewPriceRange(ToIndexedTo100(r.Min, baseValue), ToIndexedTo100(r.Max, baseValue))
}

func ToLog(price float64, f LogFormula) float64 {
	m := math.Abs(price)
	if m < 1e-15 {
		return 0
	}
	res := math.Log10(m+f.CoordOffset) + f.LogicalOffset
	if price < 0 {
		return -res
	}
	return res
}

func FromLog(logical float64, f LogFormula) float64 {
	m := math.Abs(logical)
	if m < 1e-15 {
		return 0
	}
	res := math.Pow(10, m-f.LogicalOffset) - f.CoordOffset
	if logical < 0 {
		return -res
	}
	return res
}

func ConvertPriceRangeToLog(r *PriceRange, f LogFormula) *PriceRange {
	if r == nil {
		return nil
	}
	converted := NewPriceRange(ToLog(r.Min, f), ToLog(r.Max, f))
	return &converted
}

func CanConvertPriceRangeFromLog(r *PriceRange, f LogFormula) bool {
	if r == nil {
		return false
	}
	minValue := FromLog(r.Min, f)
	maxValue := FromLog(r.Max, f)
	return !math.IsInf(minValue, 0) && !math.IsNaN(minValue) && !math.IsInf(maxValue, 0) && !math.IsNaN(maxValue)
}

func ConvertPriceRangeFromLog(r *PriceRange, f LogFormula) *PriceRange {
	if r == nil {
		return nil
	}
	converted := NewPriceRange(FromLog(r.Min, f), FromLog(r.Max, f))
	return &converted
}

// LogFormulaForPriceRange derives the log formula for a raw price range.
// Ranges smaller than 1 get a larger offset to keep resolution near zero.
func LogFormulaForPriceRange(r *PriceRange) LogFormula {
	if r == nil {
		return defaultLogFormula
	}
	diff := math.Abs(r.Max - r.Min)
	if diff >= 1 || diff < 1e-15 {
		return defaultLogFormula
	}
	digits := math.Ceil(math.Abs(math.Log10(diff)))
	logicalOffset := defaultLogFormula.LogicalOffset + digits
	return LogFormula{
		LogicalOffset: logicalOffset,
		CoordOffset:   1 / math.Pow(10, logicalOffset),
	}
}

func logFormulasAreSame(f1, f2 LogFormula) bool {
	return f1 == f2
}
