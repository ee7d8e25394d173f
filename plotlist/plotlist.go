// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package plotlist

import (
	"math"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
)

// Chunk size of the min/max cache.
const chunkSize = 30

type ValueIndex int

const (
	Open ValueIndex = iota
	High
	Low
	Close
)

// Row is one bar of a series.
type Row struct {
	Index        int
	Time         horzscale.TimePoint
	OriginalTime any
	// Open, high, low and close. Line rows use the same value four times.
	Value       [4]float64
	Color       string
	BorderColor string
	WickColor   string
	Whitespace  bool
}

type SearchMode int

const (
	NearestLeft SearchMode = iota - 1
	Exact
	NearestRight
)

type MinMax struct {
	Min float64
	Max float64
}

func mergeMinMax(first, second *MinMax) *MinMax {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return &MinMax{Min: min(first.Min, second.Min), Max: max(first.Max, second.Max)}
}

// PlotList is a sequence of rows strictly ascending by index.
type PlotList struct {
	items []Row
	// Lazily filled per value index and chunk index, reset by SetData.
	minMaxCache map[ValueIndex]map[int]*MinMax
}

func NewPlotList() *PlotList {
	return &PlotList{minMaxCache: make(map[ValueIndex]map[int]*MinMax)}
}

func (l *PlotList) Clear() {
	l.items = nil
	l.minMaxCache = make(map[ValueIndex]map[int]*MinMax)
}

// SetData copies the non-whitespace rows.
func (l *PlotList) SetData(rows []*Row) {
	items := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !r.Whitespace {
			items = append(items, *r)
		}
	}
	l.items = items
	l.minMaxCache = make(map[ValueIndex]map[int]*MinMax)
}

func (l *PlotList) Rows() []Row {
	return l.items
}

func (l *PlotList) Size() int {
	return len(l.items)
}

func (l *PlotList) IsEmpty() bool {
	return len(l.items) == 0
}

func (l *PlotList) FirstIndex() (int, bool) {
	if l.IsEmpty() {
		return 0, false
	}
	return l.items[0].Index, true
}

func (l *PlotList) LastIndex() (int, bool) {
	if l.IsEmpty() {
		return 0, false
	}
	return l.items[len(l.items)-1].Index, true
}

func (l *PlotList) First() *Row {
	if l.IsEmpty() {
		return nil
	}
	return &l.items[0]
}

func (l *PlotList) Last() *Row {
	if l.IsEmpty() {
		return nil
	}
	return &l.items[len(l.items)-1]
}

func (l *PlotList) Contains(index int) bool {
	return l.search(index, Exact) >= 0
}

func (l *PlotList) ValueAt(index int) *Row {
	return l.Search(index, Exact)
}

// Search returns the row at index, or the nearest one in the direction given by mode.
func (l *PlotList) Search(index int, mode SearchMode) *Row {
	pos := l.search(index, mode)
	if pos < 0 {
		return nil
	}
	return &l.items[pos]
}

func (l *PlotList) search(index int, mode SearchMode) int {
	exactPos := l.bsearch(index)
	if exactPos >= 0 {
		return exactPos
	}
	switch mode {
	case Exact:
		return -1
	case NearestLeft:
		if pos := l.lowerbound(index); pos > 0 {
			return pos - 1
		}
		return -1
	case NearestRight:
		if pos := l.upperbound(index); pos < len(l.items) {
			return pos
		}
		return -1
	default:
		panic("unknown search mode")
	}
}

func (l *PlotList) bsearch(index int) int {
	pos := l.lowerbound(index)
	if pos < len(l.items) && l.items[pos].Index == index {
		return pos
	}
	return -1
}

func (l *PlotList) lowerbound(index int) int {
	return chartval.LowerBound(l.items, index, func(r Row, i int) bool { return r.Index < i })
}

func (l *PlotList) upperbound(index int) int {
	return chartval.UpperBound(l.items, index, func(i int, r Row) bool { return i < r.Index })
}

// MinMaxOnRangeCached returns the min/max of the given values for rows with index in [start, end].
// Returns nil if there are no such rows.
func (l *PlotList) MinMaxOnRangeCached(start, end int, values []ValueIndex) *MinMax {
	if l.IsEmpty() {
		return nil
	}
	var result *MinMax
	for _, v := range values {
		result = mergeMinMax(result, l.minMaxOnRangeCachedImpl(start, end, v))
	}
	return result
}

func floorChunk(i int) int {
	return int(math.Floor(float64(i) / chunkSize))
}

func (l *PlotList) minMaxOnRangeCachedImpl(start, end int, value ValueIndex) *MinMax {
	firstIndex, _ := l.FirstIndex()
	lastIndex, _ := l.LastIndex()
	s := max(start, firstIndex)
	e := min(end, lastIndex)

	cachedLow := int(math.Ceil(float64(s)/chunkSize)) * chunkSize
	cachedHigh := max(cachedLow, floorChunk(e)*chunkSize)

	// Head, not aligned to a chunk.
	result := l.plotMinMax(l.lowerbound(s), l.upperbound(min(e, cachedLow, end)), value)

	cache, ok := l.minMaxCache[value]
	if !ok {
		cache = make(map[int]*MinMax)
		l.minMaxCache[value] = cache
	}
	for c := max(cachedLow+1, s); c < cachedHigh; c += chunkSize {
		chunkIndex := floorChunk(c)
		chunkMinMax, ok := cache[chunkIndex]
		if !ok {
			chunkStart := l.lowerbound(chunkIndex * chunkSize)
			chunkEnd := l.upperbound((chunkIndex+1)*chunkSize - 1)
			chunkMinMax = l.plotMinMax(chunkStart, chunkEnd, value)
			cache[chunkIndex] = chunkMinMax
		}
		result = mergeMinMax(result, chunkMinMax)
	}

	// Tail
	result = mergeMinMax(result, l.plotMinMax(l.lowerbound(cachedHigh), l.upperbound(e), value))
	return result
}

func (l *PlotList) plotMinMax(startPos, endPosExclusive int, value ValueIndex) *MinMax {
	var result *MinMax
	for i := startPos; i < endPosExclusive; i++ {
		v := l.items[i].Value[value]
		if math.IsNaN(v) {
			continue
		}
		if result == nil {
			result = &MinMax{Min: v, Max: v}
		} else {
			result.Min = min(result.Min, v)
			result.Max = max(result.Max, v)
		}
	}
	return result
}
