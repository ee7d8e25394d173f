// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package lines

import (
	"math"
	"maycharts/chartapi"
	"maycharts/chartval"

	"github.com/ericlagergren/decimal"
)

// FromFloats aligns values to the end of times. The first warmup items and NaN values become whitespace.
func FromFloats(times []any, values []float64, warmup int) []chartapi.LineData {
	result := make([]chartapi.LineData, len(times))
	offset := len(times) - len(values)
	for i := range times {
		result[i].Time = times[i]
		j := i - offset
		if i < warmup || j < 0 || math.IsNaN(values[j]) || math.IsInf(values[j], 0) {
			continue
		}
		result[i].Value = chartval.ConvertFloatToDecimal(values[j], 64)
	}
	return result
}

// FromDecimals is FromFloats for decimal values of the same length as times. Nil values become whitespace.
func FromDecimals(times []any, values []*decimal.Big) []chartapi.LineData {
	result := make([]chartapi.LineData, len(times))
	for i := range times {
		result[i] = chartapi.LineData{Time: times[i], Value: values[i]}
	}
	return result
}
