// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package timescale

import (
	"math"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"sort"

	"golang.org/x/exp/maps"
)

type tickMarksCache struct {
	marks             []horzscale.TickMark
	maxIndexesPerMark int
}

// TickMarks keeps the time scale points bucketed by weight and thins them out to fit the bar spacing.
type TickMarks struct {
	marksByWeight       map[horzscale.TickMarkWeight][]horzscale.TickMark
	cache               *tickMarksCache
	uniformDistribution bool
}

func NewTickMarks() *TickMarks {
	return &TickMarks{marksByWeight: make(map[horzscale.TickMarkWeight][]horzscale.TickMark)}
}

func (m *TickMarks) SetUniformDistribution(uniform bool) {
	m.uniformDistribution = uniform
	m.cache = nil
}

// SetTimeScalePoints replaces all marks starting with firstChangedPointIndex.
// A negative index keeps all marks.
func (m *TickMarks) SetTimeScalePoints(points []horzscale.Point, firstChangedPointIndex int) {
	if firstChangedPointIndex < 0 {
		return
	}
	m.removeMarksSinceIndex(firstChangedPointIndex)
	m.cache = nil
	for index := firstChangedPointIndex; index < len(points); index++ {
		point := points[index]
		m.marksByWeight[point.TimeWeight] = append(m.marksByWeight[point.TimeWeight], horzscale.TickMark{
			Index:        index,
			Time:         point.Time,
			Weight:       point.TimeWeight,
			OriginalTime: point.OriginalTime,
		})
	}
}

// Build returns the marks which are at least maxWidth pixels apart. The result is cached.
func (m *TickMarks) Build(spacing, maxWidth float64) []horzscale.TickMark {
	maxIndexesPerMark := int(math.Ceil(maxWidth / spacing))
	if m.cache == nil || m.cache.maxIndexesPerMark != maxIndexesPerMark {
		m.cache = &tickMarksCache{marks: m.buildMarksImpl(maxIndexesPerMark), maxIndexesPerMark: maxIndexesPerMark}
	}
	return m.cache.marks
}

func (m *TickMarks) removeMarksSinceIndex(sinceIndex int) {
	if sinceIndex <= 0 {
		clear(m.marksByWeight)
		return
	}
	for weight, marks := range m.marksByWeight {
		if sinceIndex <= marks[0].Index {
			delete(m.marksByWeight, weight)
			continue
		}
		pos := chartval.LowerBound(marks, sinceIndex, func(tm horzscale.TickMark, index int) bool {
			return tm.Index < index
		})
		m.marksByWeight[weight] = marks[:pos]
	}
}

func (m *TickMarks) buildMarksImpl(maxIndexesPerMark int) []horzscale.TickMark {
	var marks []horzscale.TickMark
	weights := maps.Keys(m.marksByWeight)
	sort.Sort(sort.Reverse(sortableWeights(weights)))
	for _, weight := range weights {
		// Marks built so far, coarser weights first.
		prevMarks := marks
		marks = make([]horzscale.TickMark, 0, len(prevMarks))
		prevPos := 0
		rightIndex := math.MaxInt
		leftIndex := math.MinInt
		for _, mark := range m.marksByWeight[weight] {
			currentIndex := mark.Index
			for prevPos < len(prevMarks) {
				lastIndex := prevMarks[prevPos].Index
				if lastIndex < currentIndex {
					marks = append(marks, prevMarks[prevPos])
					prevPos++
					leftIndex = lastIndex
					rightIndex = math.MaxInt
				} else {
					rightIndex = lastIndex
					break
				}
			}
			if distance(currentIndex, rightIndex) >= maxIndexesPerMark && distance(leftIndex, currentIndex) >= maxIndexesPerMark {
				marks = append(marks, mark)
				leftIndex = currentIndex
			} else if m.uniformDistribution {
				return prevMarks
			}
		}
		marks = append(marks, prevMarks[prevPos:]...)
	}
	return marks
}

// distance saturates for the open bounds.
func distance(left, right int) int {
	if left == math.MinInt || right == math.MaxInt {
		return math.MaxInt
	}
	return right - left
}

type sortableWeights []horzscale.TickMarkWeight

func (w sortableWeights) Len() int           { return len(w) }
func (w sortableWeights) Less(i, j int) bool { return w[i] < w[j] }
func (w sortableWeights) Swap(i, j int)      { w[i], w[j] = w[j], w[i] }
