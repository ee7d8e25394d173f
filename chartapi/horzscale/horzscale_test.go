// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package horzscale

import (
	"maycharts/chartapi"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pointsAt(timestamps ...int64) []Point {
	points := make([]Point, len(timestamps))
	for i, ts := range timestamps {
		points[i].Time = TimePoint{Timestamp: ts}
	}
	return points
}

func TestTimeWeights(t *testing.T) {
	b := NewTimeBehavior(TimeBehaviorOptions{TimeVisible: true})
	base := time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC).Unix()
	points := pointsAt(
		base,
		base+60,        // next minute
		base+5*60,      // 5 minute boundary
		base+60*60,     // next hour
		base+24*60*60,  // next day
		base+3*24*3600, // next year
	)
	b.FillWeightsForPoints(points, 0)
	assert.Equal(t, WeightMinute1, points[1].TimeWeight)
	assert.Equal(t, WeightMinute5, points[2].TimeWeight)
	assert.Equal(t, WeightHour1, points[3].TimeWeight)
	assert.Equal(t, WeightDay, points[4].TimeWeight)
	assert.Equal(t, WeightYear, points[5].TimeWeight)
	// The first point is guessed from the average step, which is more than a day here.
	assert.Equal(t, WeightDay, points[0].TimeWeight)
}

func TestTimeWeightsFromStartIndex(t *testing.T) {
	b := NewTimeBehavior(TimeBehaviorOptions{})
	base := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC).Unix()
	points := pointsAt(base, base+24*3600)
	points[0].TimeWeight = WeightHour3
	b.FillWeightsForPoints(points, 1)
	assert.Equal(t, WeightHour3, points[0].TimeWeight)
	assert.Equal(t, WeightMonth, points[1].TimeWeight)
}

func TestTimeConverter(t *testing.T) {
	b := NewTimeBehavior(TimeBehaviorOptions{})
	conv, err := b.CreateConverter([]chartapi.DataItem{chartapi.WhitespaceData{Time: "2023-05-17"}})
	assert.NoError(t, err)
	p, err := conv("2023-05-17")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC).Unix(), p.Timestamp)
	assert.Equal(t, chartapi.BusinessDay{Year: 2023, Month: 5, Day: 17}, *p.BusinessDay)

	_, err = conv(int64(5))
	assert.ErrorIs(t, err, chartapi.ErrInvalidTime)
	_, err = conv("17.05.2023")
	assert.ErrorIs(t, err, chartapi.ErrInvalidTime)

	conv, err = b.CreateConverter([]chartapi.DataItem{chartapi.WhitespaceData{Time: time.Unix(100, 0)}})
	assert.NoError(t, err)
	p, err = conv(time.Unix(100, 0))
	assert.NoError(t, err)
	assert.Equal(t, int64(100), p.Timestamp)
	assert.Nil(t, p.BusinessDay)

	_, err = b.CreateConverter([]chartapi.DataItem{chartapi.WhitespaceData{Time: struct{}{}}})
	assert.ErrorIs(t, err, chartapi.ErrInvalidTime)
}

func TestFormatTickMark(t *testing.T) {
	b := NewTimeBehavior(TimeBehaviorOptions{TimeVisible: true})
	ts := time.Date(2023, 3, 7, 14, 30, 0, 0, time.UTC).Unix()
	mark := TickMark{Time: TimePoint{Timestamp: ts}}
	mark.Weight = WeightYear
	assert.Equal(t, "2023", b.FormatTickMark(mark))
	mark.Weight = WeightMonth
	assert.Equal(t, "Mar", b.FormatTickMark(mark))
	mark.Weight = WeightDay
	assert.Equal(t, "7", b.FormatTickMark(mark))
	mark.Weight = WeightMinute30
	assert.Equal(t, "14:30", b.FormatTickMark(mark))
	assert.Equal(t, "07 Mar 23 14:30", b.FormatTime(mark.Time))

	b = NewTimeBehavior(TimeBehaviorOptions{})
	assert.Equal(t, "7", b.FormatTickMark(mark))
	assert.Equal(t, "07 Mar 23", b.FormatTime(mark.Time))
}

func TestNumericBehavior(t *testing.T) {
	b := NewNumericBehavior()
	points := pointsAt(1, 10, 15, 100, 1000)
	b.FillWeightsForPoints(points, 0)
	assert.Equal(t, WeightLessThanSecond, points[0].TimeWeight)
	assert.Equal(t, WeightSecond, points[1].TimeWeight)
	assert.Equal(t, WeightLessThanSecond, points[2].TimeWeight)
	assert.Equal(t, WeightMinute1, points[3].TimeWeight)
	assert.Equal(t, TickMarkWeight(30), points[4].TimeWeight)

	conv, err := b.CreateConverter([]chartapi.DataItem{chartapi.WhitespaceData{Time: 3}})
	assert.NoError(t, err)
	_, err = conv(2.5)
	assert.ErrorIs(t, err, chartapi.ErrInvalidTime)
	p, err := conv(12.0)
	assert.NoError(t, err)
	assert.Equal(t, "12", b.FormatTime(p))
}
