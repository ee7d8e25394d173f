// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package horzscale

import (
	"fmt"
	"math"
	"maycharts/chartapi"
	"time"
)

const businessDayLayout = "2006-01-02"

type TimeBehaviorOptions struct {
	TimeVisible    bool `yaml:",omitempty"`
	SecondsVisible bool `yaml:",omitempty"`
}

// TimeBehavior orders items by calendar time.
// Supported time values are int64 UTC seconds, time.Time, BusinessDay and "2006-01-02" strings.
type TimeBehavior struct {
	options TimeBehaviorOptions
}

func NewTimeBehavior(options TimeBehaviorOptions) *TimeBehavior {
	return &TimeBehavior{options: options}
}

func (b *TimeBehavior) Key(t TimePoint) int64 {
	return t.Timestamp
}

func (b *TimeBehavior) CreateConverter(items []chartapi.DataItem) (Converter, error) {
	if len(items) == 0 {
		return nil, nil
	}
	switch items[0].GetTime().(type) {
	case string:
		return convertStringTime, nil
	case chartapi.BusinessDay, *chartapi.BusinessDay:
		return convertBusinessDayTime, nil
	case int64, int, float64, time.Time:
		return convertTimestampTime, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", chartapi.ErrInvalidTime, items[0].GetTime())
	}
}

func businessDayToTimePoint(day chartapi.BusinessDay) TimePoint {
	t := time.Date(day.Year, time.Month(day.Month), day.Day, 0, 0, 0, 0, time.UTC)
	return TimePoint{Timestamp: t.Unix(), BusinessDay: &day}
}

func convertStringTime(t any) (TimePoint, error) {
	s, ok := t.(string)
	if !ok {
		return TimePoint{}, fmt.Errorf("%w: expected date string, got %T", chartapi.ErrInvalidTime, t)
	}
	d, err := time.Parse(businessDayLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("%w: %v", chartapi.ErrInvalidTime, err)
	}
	return businessDayToTimePoint(chartapi.BusinessDay{Year: d.Year(), Month: int(d.Month()), Day: d.Day()}), nil
}

func convertBusinessDayTime(t any) (TimePoint, error) {
	switch day := t.(type) {
	case chartapi.BusinessDay:
		return businessDayToTimePoint(day), nil
	case *chartapi.BusinessDay:
		if day != nil {
			return businessDayToTimePoint(*day), nil
		}
	}
	return TimePoint{}, fmt.Errorf("%w: expected business day, got %T", chartapi.ErrInvalidTime, t)
}

func convertTimestampTime(t any) (TimePoint, error) {
	switch v := t.(type) {
	case int64:
		return TimePoint{Timestamp: v}, nil
	case int:
		return TimePoint{Timestamp: int64(v)}, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return TimePoint{}, fmt.Errorf("%w: non-finite timestamp", chartapi.ErrInvalidTime)
		}
		return TimePoint{Timestamp: int64(v)}, nil
	case time.Time:
		return TimePoint{Timestamp: v.Unix()}, nil
	default:
		return TimePoint{}, fmt.Errorf("%w: expected timestamp, got %T", chartapi.ErrInvalidTime, t)
	}
}

// Intraday boundaries in seconds, from fine to coarse.
var intradayWeightDivisors = []struct {
	divisor int64
	weight  TickMarkWeight
}{
	{1, WeightSecond},
	{60, WeightMinute1},
	{5 * 60, WeightMinute5},
	{30 * 60, WeightMinute30},
	{60 * 60, WeightHour1},
	{3 * 60 * 60, WeightHour3},
	{6 * 60 * 60, WeightHour6},
	{12 * 60 * 60, WeightHour12},
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func weightByTime(current, prev int64) TickMarkWeight {
	currentDate := time.Unix(current, 0).UTC()
	prevDate := time.Unix(prev, 0).UTC()
	if currentDate.Year() != prevDate.Year() {
		return WeightYear
	} else if currentDate.Month() != prevDate.Month() {
		return WeightMonth
	} else if currentDate.Day() != prevDate.Day() {
		return WeightDay
	}
	for i := len(intradayWeightDivisors) - 1; i >= 0; i-- {
		d := intradayWeightDivisors[i]
		if floorDiv(prev, d.divisor) != floorDiv(current, d.divisor) {
			return d.weight
		}
	}
	return WeightLessThanSecond
}

func (b *TimeBehavior) FillWeightsForPoints(points []Point, startIndex int) {
	if len(points) == 0 || startIndex >= len(points) {
		return
	}
	var prevTime *int64
	if startIndex > 0 {
		prevTime = &points[startIndex-1].Time.Timestamp
	}
	var totalTimeDiff int64
	for i := startIndex; i < len(points); i++ {
		current := points[i].Time.Timestamp
		if prevTime != nil {
			points[i].TimeWeight = weightByTime(current, *prevTime)
			totalTimeDiff += current - *prevTime
		}
		prevTime = &points[i].Time.Timestamp
	}
	if startIndex == 0 && len(points) > 1 {
		// Guess a weight for the first point from the average distance.
		averageTimeDiff := int64(math.Ceil(float64(totalTimeDiff) / float64(len(points)-1)))
		first := points[0].Time.Timestamp
		points[0].TimeWeight = weightByTime(first, first-averageTimeDiff)
	}
}

func (b *TimeBehavior) utcTime(t TimePoint) time.Time {
	if t.BusinessDay != nil {
		return time.Date(t.BusinessDay.Year, time.Month(t.BusinessDay.Month), t.BusinessDay.Day, 0, 0, 0, 0, time.UTC)
	}
	return time.Unix(t.Timestamp, 0).UTC()
}

func (b *TimeBehavior) FormatTickMark(mark TickMark) string {
	tickMarkType := WeightToTickMarkType(mark.Weight, b.options.TimeVisible, b.options.SecondsVisible)
	return b.utcTime(mark.Time).Format(tickMarkType.Layout())
}

func (b *TimeBehavior) FormatTime(t TimePoint) string {
	layout := "02 Jan 06"
	if b.options.TimeVisible && t.BusinessDay == nil {
		if b.options.SecondsVisible {
			layout += " 15:04:05"
		} else {
			layout += " 15:04"
		}
	}
	return b.utcTime(t).Format(layout)
}
