// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import "math"

const tickDensity = 2.5

type PriceMark struct {
	Coord float64
	Label string
}

// TickMarkBuilder builds the tick marks of a price scale.
type TickMarkBuilder struct {
	priceScale *PriceScale
	base       int
	marks      []PriceMark
}

func newTickMarkBuilder(priceScale *PriceScale, base int) *TickMarkBuilder {
	return &TickMarkBuilder{priceScale: priceScale, base: base}
}

func (b *TickMarkBuilder) tickMarkHeight() float64 {
	return math.Ceil(b.priceScale.FontSize() * tickDensity)
}

// TickSpan is the minimum span of three divider rotations. Panics if high < low.
func (b *TickMarkBuilder) TickSpan(high, low float64) float64 {
	if high < low {
		panic("tick span high < low")
	}
	scaleHeight := b.priceScale.Height()
	maxTickSpan := (high - low) * b.tickMarkHeight() / scaleHeight
	c1 := NewTickSpanCalculator(b.base, []float64{2, 2.5, 2})
	c2 := NewTickSpanCalculator(b.base, []float64{2, 2, 2.5})
	c3 := NewTickSpanCalculator(b.base, []float64{2.5, 2, 2})
	return min(
		c1.TickSpan(high, low, maxTickSpan),
		c2.TickSpan(high, low, maxTickSpan),
		c3.TickSpan(high, low, maxTickSpan),
	)
}

func (b *TickMarkBuilder) RebuildTickMarks() {
	s := b.priceScale
	firstValue, ok := s.FirstValue()
	if !ok {
		b.marks = nil
		return
	}
	scaleHeight := s.Height()
	bottom := s.coordinateToLogical(scaleHeight-1, firstValue)
	top := s.coordinateToLogical(0, firstValue)

	extraTopBottomMargin := 0.0
	if s.options.EntireTextOnly {
		extraTopBottomMargin = s.FontSize() / 2
	}
	minCoord := extraTopBottomMargin
	maxCoord := scaleHeight - 1 - extraTopBottomMargin

	high := math.Max(bottom, top)
	low := math.Min(bottom, top)
	if high == low {
		b.marks = nil
		return
	}

	span := b.TickSpan(high, low)
	mod := math.Mod(high, span)
	if mod < 0 {
		mod += span
	}
	havePrev := false
	var prevCoord float64
	var marks []PriceMark
	for logical := high - mod; logical > low; logical -= span {
		coord := s.logicalToCoordinate(logical, firstValue)
		// Check if there is place for it.
		if havePrev && math.Abs(coord-prevCoord) < b.tickMarkHeight() {
			continue
		}
		// Skip partially visible marks.
		if coord < minCoord || coord > maxCoord {
			continue
		}
		marks = append(marks, PriceMark{Coord: coord, Label: s.FormatLogical(logical)})
		havePrev = true
		prevCoord = coord
		if s.IsLog() {
			// The span depends on the magnitude in log mode.
			span = b.TickSpan(logical, low)
		}
	}
	b.marks = marks
}

func (b *TickMarkBuilder) Marks() []PriceMark {
	return b.marks
}
