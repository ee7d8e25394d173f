// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package horzscale

import "maycharts/chartapi"

// TimePoint is the internal representation of a horizontal scale item.
type TimePoint struct {
	// Ordering key, UTC seconds for calendar time.
	Timestamp int64
	// Set if the caller supplied a calendar day.
	BusinessDay *chartapi.BusinessDay
}

// Point is one slot on the shared timeline.
type Point struct {
	Time         TimePoint
	OriginalTime any
	TimeWeight   TickMarkWeight
}

type TickMark struct {
	Index        int
	Time         TimePoint
	Weight       TickMarkWeight
	OriginalTime any
}

type Converter func(t any) (TimePoint, error)

// Behavior defines how caller time values are ordered, weighted and formatted.
type Behavior interface {
	Key(t TimePoint) int64
	// CreateConverter selects a time converter based on the items, all items need to use the same kind of time value.
	CreateConverter(items []chartapi.DataItem) (Converter, error)
	// FillWeightsForPoints assigns weights to points[startIndex:], comparing each point to its predecessor.
	FillWeightsForPoints(points []Point, startIndex int)
	FormatTickMark(mark TickMark) string
	FormatTime(t TimePoint) string
}
