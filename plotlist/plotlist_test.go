// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package plotlist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRow(index int, low, high float64) *Row {
	return &Row{Index: index, Value: [4]float64{low, high, low, high}}
}

func TestSearch(t *testing.T) {
	l := NewPlotList()
	l.SetData([]*Row{newRow(1, 1, 2), newRow(3, 1, 2), {Index: 4, Whitespace: true}, newRow(7, 1, 2)})
	assert.Equal(t, 3, l.Size())
	assert.Equal(t, 3, l.Search(3, Exact).Index)
	assert.Nil(t, l.Search(4, Exact))
	assert.Equal(t, 3, l.Search(5, NearestLeft).Index)
	assert.Equal(t, 7, l.Search(5, NearestRight).Index)
	assert.Nil(t, l.Search(0, NearestLeft))
	assert.Nil(t, l.Search(8, NearestRight))
	assert.True(t, l.Contains(7))
	assert.False(t, l.Contains(4))
	first, ok := l.FirstIndex()
	assert.True(t, ok)
	assert.Equal(t, 1, first)
	assert.Panics(t, func() { l.Search(2, SearchMode(5)) })
}

func TestMinMaxOnRangeCached(t *testing.T) {
	var rows []*Row
	for i := 0; i < 200; i++ {
		// Skip some indexes to simulate gaps.
		if i%7 == 3 {
			continue
		}
		v := math.Sin(float64(i)/5) * float64(i)
		rows = append(rows, newRow(i, v-1, v+1))
	}
	l := NewPlotList()
	l.SetData(rows)

	bruteForce := func(start, end int) (float64, float64) {
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			if r.Index >= start && r.Index <= end {
				minV = min(minV, r.Value[Low])
				maxV = max(maxV, r.Value[High])
			}
		}
		return minV, maxV
	}
	ranges := [][2]int{{0, 199}, {5, 17}, {29, 31}, {30, 90}, {31, 150}, {61, 61}, {-10, 500}, {100, 119}}
	for _, r := range ranges {
		// Query twice to use the cache on the second run.
		for run := 0; run < 2; run++ {
			mm := l.MinMaxOnRangeCached(r[0], r[1], []ValueIndex{High, Low})
			expectedMin, expectedMax := bruteForce(r[0], r[1])
			if assert.NotNil(t, mm) {
				assert.Equal(t, expectedMin, mm.Min, "range %v", r)
				assert.Equal(t, expectedMax, mm.Max, "range %v", r)
			}
		}
	}
	assert.Nil(t, l.MinMaxOnRangeCached(3, 3, []ValueIndex{Close}))
}

func TestMinMaxCacheResetOnSetData(t *testing.T) {
	l := NewPlotList()
	l.SetData([]*Row{newRow(0, 1, 2), newRow(40, 1, 2), newRow(70, 1, 2)})
	mm := l.MinMaxOnRangeCached(0, 70, []ValueIndex{High})
	assert.Equal(t, 2.0, mm.Max)
	l.SetData([]*Row{newRow(0, 1, 2), newRow(40, 1, 9), newRow(70, 1, 2)})
	mm = l.MinMaxOnRangeCached(0, 70, []ValueIndex{High})
	assert.Equal(t, 9.0, mm.Max)
}

func TestMinMaxSkipsNaN(t *testing.T) {
	l := NewPlotList()
	l.SetData([]*Row{{Index: 0, Value: [4]float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}}, newRow(1, 3, 4)})
	mm := l.MinMaxOnRangeCached(0, 1, []ValueIndex{Close})
	assert.Equal(t, MinMax{Min: 4, Max: 4}, *mm)
}
