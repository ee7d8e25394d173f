// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package horzscale

import (
	"fmt"
	"math"
	"maycharts/chartapi"
	"strconv"
)

// NumericBehavior orders items by plain integer values, e.g. maturities in months.
type NumericBehavior struct{}

func NewNumericBehavior() *NumericBehavior {
	return &NumericBehavior{}
}

func (b *NumericBehavior) Key(t TimePoint) int64 {
	return t.Timestamp
}

func (b *NumericBehavior) CreateConverter(items []chartapi.DataItem) (Converter, error) {
	if len(items) == 0 {
		return nil, nil
	}
	return convertNumeric, nil
}

func convertNumeric(t any) (TimePoint, error) {
	switch v := t.(type) {
	case int:
		return TimePoint{Timestamp: int64(v)}, nil
	case int64:
		return TimePoint{Timestamp: v}, nil
	case float64:
		if math.Trunc(v) != v || math.IsInf(v, 0) {
			return TimePoint{}, fmt.Errorf("%w: %v is not an integral value", chartapi.ErrInvalidTime, v)
		}
		return TimePoint{Timestamp: int64(v)}, nil
	default:
		return TimePoint{}, fmt.Errorf("%w: expected number, got %T", chartapi.ErrInvalidTime, t)
	}
}

// Values with more trailing zeros get a higher weight: 1 < 10 < 100 ...
func numericWeight(v int64) TickMarkWeight {
	if v == 0 {
		return WeightYear
	}
	weight := WeightLessThanSecond
	for v%10 == 0 && weight < WeightYear {
		v /= 10
		weight += 10
	}
	return weight
}

func (b *NumericBehavior) FillWeightsForPoints(points []Point, startIndex int) {
	for i := startIndex; i < len(points); i++ {
		points[i].TimeWeight = numericWeight(points[i].Time.Timestamp)
	}
}

func (b *NumericBehavior) FormatTickMark(mark TickMark) string {
	return strconv.FormatInt(mark.Time.Timestamp, 10)
}

func (b *NumericBehavior) FormatTime(t TimePoint) string {
	return strconv.FormatInt(t.Timestamp, 10)
}
