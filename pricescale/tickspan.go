// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import (
	"math"
	"maycharts/chartval"
)

const tickSpanEpsilon = 1e-14

// TickSpanCalculator finds a tick span by repeatedly dividing a power of ten.
type TickSpanCalculator struct {
	base               int
	integralDividers   []float64
	fractionalDividers []float64
}

// NewTickSpanCalculator panics if base is neither a power of ten nor a product of 2 and 5.
func NewTickSpanCalculator(base int, integralDividers []float64) TickSpanCalculator {
	c := TickSpanCalculator{base: base, integralDividers: integralDividers}
	if chartval.IsBaseDecimal(base) {
		c.fractionalDividers = []float64{2, 2.5, 2}
	} else {
		for baseRest := base; baseRest != 1; {
			if baseRest%2 == 0 {
				c.fractionalDividers = append(c.fractionalDividers, 2)
				baseRest /= 2
			} else if baseRest%5 == 0 {
				c.fractionalDividers = append(c.fractionalDividers, 2, 2.5)
				baseRest /= 5
			} else {
				panic("unexpected tick span base")
			}
			if len(c.fractionalDividers) > 100 {
				panic("invalid tick span base")
			}
		}
	}
	return c
}

// TickSpan returns a span which is not smaller than the minimum movement 1/base and maxTickSpan.
func (c TickSpanCalculator) TickSpan(high, low, maxTickSpan float64) float64 {
	minMovement := 0.0
	if c.base != 0 {
		minMovement = 1 / float64(c.base)
	}
	resultTickSpan := math.Pow(10, math.Max(0, math.Ceil(math.Log10(high-low))))
	index := 0
	divider := c.integralDividers[0]
	for {
		// The second condition is needed for very small values like 1e-10, where
		// GreaterOrEqual alone does not work.
		largerMinMovement := chartval.GreaterOrEqual(resultTickSpan, minMovement, tickSpanEpsilon) && resultTickSpan > minMovement+tickSpanEpsilon
		largerMaxTickSpan := chartval.GreaterOrEqual(resultTickSpan, maxTickSpan*divider, tickSpanEpsilon)
		larger1 := chartval.GreaterOrEqual(resultTickSpan, 1, tickSpanEpsilon)
		if !(largerMinMovement && largerMaxTickSpan && larger1) {
			break
		}
		resultTickSpan /= divider
		index++
		divider = c.integralDividers[index%len(c.integralDividers)]
	}
	if resultTickSpan <= minMovement+tickSpanEpsilon {
		resultTickSpan = minMovement
	}
	resultTickSpan = math.Max(1, resultTickSpan)

	if len(c.fractionalDividers) > 0 && chartval.Equal(resultTickSpan, 1, tickSpanEpsilon) {
		index = 0
		divider = c.fractionalDividers[0]
		for {
			largerMinMovement := chartval.GreaterOrEqual(resultTickSpan, minMovement, tickSpanEpsilon) && resultTickSpan > minMovement+tickSpanEpsilon
			largerMaxTickSpan := chartval.GreaterOrEqual(resultTickSpan, maxTickSpan*divider, tickSpanEpsilon)
			if !(largerMinMovement && largerMaxTickSpan) {
				break
			}
			resultTickSpan /= divider
			index++
			divider = c.fractionalDividers[index%len(c.fractionalDividers)]
		}
	}
	return resultTickSpan
}
