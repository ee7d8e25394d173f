// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package datalayer

import (
	"maycharts/chartapi"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"maycharts/plotlist"
	"maycharts/series"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = int64(86400)

// 2023-01-02, a Monday.
const testStart = int64(1672617600)

func newTestLayer() *DataLayer {
	return NewDataLayer(horzscale.NewTimeBehavior(horzscale.TimeBehaviorOptions{TimeVisible: true}))
}

func newLineSeries() *series.Series {
	return series.NewSeries(chartapi.SeriesTypeLine, series.DefaultOptions(chartapi.SeriesTypeLine), nil)
}

func line(dayIndex int64, v float64) chartapi.DataItem {
	return chartapi.LineData{Time: testStart + dayIndex*day, Value: chartval.ConvertFloatToDecimal(v, 64)}
}

func whitespace(dayIndex int64) chartapi.DataItem {
	return chartapi.WhitespaceData{Time: testStart + dayIndex*day}
}

func indexes(rows []*plotlist.Row) []int {
	result := make([]int, len(rows))
	for i, r := range rows {
		result[i] = r.Index
	}
	return result
}

func TestSetSeriesData(t *testing.T) {
	l := newTestLayer()
	s := newLineSeries()
	response, err := l.SetSeriesData(s, []chartapi.DataItem{line(0, 1), line(1, 2), line(2, 3)})
	require.NoError(t, err)
	require.NotNil(t, response.TimeScale.BaseIndex)
	assert.Equal(t, 2, *response.TimeScale.BaseIndex)
	assert.Equal(t, 0, response.TimeScale.FirstChangedPointIndex)
	assert.Len(t, response.TimeScale.Points, 3)
	assert.Equal(t, []int{0, 1, 2}, indexes(response.Series[s].Data))
	assert.Nil(t, response.Series[s].Info)

	for i := 1; i < len(response.TimeScale.Points); i++ {
		assert.Less(t, response.TimeScale.Points[i-1].Time.Timestamp, response.TimeScale.Points[i].Time.Timestamp)
	}
	assert.Equal(t, horzscale.WeightDay, response.TimeScale.Points[1].TimeWeight)
}

func TestSetSeriesDataIdempotent(t *testing.T) {
	l := newTestLayer()
	s := newLineSeries()
	items := []chartapi.DataItem{line(0, 1), line(1, 2), line(2, 3)}
	first, err := l.SetSeriesData(s, items)
	require.NoError(t, err)
	second, err := l.SetSeriesData(s, items)
	require.NoError(t, err)
	assert.Equal(t, -1, second.TimeScale.FirstChangedPointIndex)
	assert.Nil(t, second.TimeScale.Points)
	assert.Equal(t, *first.TimeScale.BaseIndex, *second.TimeScale.BaseIndex)
	require.Len(t, second.Series[s].Data, 3)
	for i := range first.Series[s].Data {
		assert.Equal(t, *first.Series[s].Data[i], *second.Series[s].Data[i])
	}
}

func TestWhitespaceOccupiesSlot(t *testing.T) {
	l := newTestLayer()
	s := newLineSeries()
	response, err := l.SetSeriesData(s, []chartapi.DataItem{line(0, 1), whitespace(1), line(2, 3), whitespace(3)})
	require.NoError(t, err)
	assert.Len(t, response.TimeScale.Points, 4)
	assert.Equal(t, []int{0, 2}, indexes(response.Series[s].Data))
	assert.Equal(t, 2, *response.TimeScale.BaseIndex)
}

func TestMultipleSeries(t *testing.T) {
	l := newTestLayer()
	a := newLineSeries()
	b := newLineSeries()
	_, err := l.SetSeriesData(a, []chartapi.DataItem{line(0, 1), line(2, 3)})
	require.NoError(t, err)
	response, err := l.SetSeriesData(b, []chartapi.DataItem{line(1, 5), line(3, 6)})
	require.NoError(t, err)
	assert.Equal(t, 1, response.TimeScale.FirstChangedPointIndex)
	assert.Len(t, response.TimeScale.Points, 4)
	assert.Equal(t, []int{0, 2}, indexes(response.Series[a].Data))
	assert.Equal(t, []int{1, 3}, indexes(response.Series[b].Data))
	assert.Equal(t, 3, *response.TimeScale.BaseIndex)

	// Replacing b keeps the slots of a.
	response, err = l.SetSeriesData(b, []chartapi.DataItem{line(2, 7)})
	require.NoError(t, err)
	assert.Equal(t, 1, response.TimeScale.FirstChangedPointIndex)
	assert.Len(t, response.TimeScale.Points, 2)
	assert.Equal(t, []int{0, 1}, indexes(response.Series[a].Data))
	assert.Equal(t, []int{1}, indexes(response.Series[b].Data))

	response = l.RemoveSeries(a)
	assert.Equal(t, 0, response.TimeScale.FirstChangedPointIndex)
	assert.Len(t, response.TimeScale.Points, 1)
	assert.Equal(t, []int{0}, indexes(response.Series[b].Data))
	assert.Empty(t, response.Series[a].Data)

	response = l.RemoveSeries(b)
	assert.Nil(t, response.TimeScale.BaseIndex)
	assert.Empty(t, l.Points())
}

func TestSetSeriesDataUnordered(t *testing.T) {
	l := newTestLayer()
	s := newLineSeries()
	_, err := l.SetSeriesData(s, []chartapi.DataItem{line(0, 1), line(2, 3)})
	require.NoError(t, err)
	_, err = l.SetSeriesData(s, []chartapi.DataItem{line(2, 1), line(1, 3)})
	assert.ErrorIs(t, err, chartapi.ErrUnorderedData)
	_, err = l.SetSeriesData(s, []chartapi.DataItem{chartapi.LineData{Time: struct{}{}}})
	assert.ErrorIs(t, err, chartapi.ErrInvalidTime)
	// Nothing was changed.
	assert.Len(t, l.Points(), 2)
}

func TestUpdateSeriesData(t *testing.T) {
	l := newTestLayer()
	s := newLineSeries()
	_, err := l.SetSeriesData(s, []chartapi.DataItem{line(0, 1), line(1, 2)})
	require.NoError(t, err)

	// Replace the last bar.
	response, err := l.UpdateSeriesData(s, line(1, 5))
	require.NoError(t, err)
	assert.Equal(t, -1, response.TimeScale.FirstChangedPointIndex)
	require.NotNil(t, response.Series[s].Info)
	assert.True(t, response.Series[s].Info.LastBarUpdatedOrNewBarsAddedToTheRight)
	require.Len(t, response.Series[s].Data, 2)
	assert.Equal(t, 5.0, response.Series[s].Data[1].Value[plotlist.Close])

	// Append a new bar.
	response, err = l.UpdateSeriesData(s, line(2, 6))
	require.NoError(t, err)
	assert.Equal(t, 2, response.TimeScale.FirstChangedPointIndex)
	assert.Len(t, response.TimeScale.Points, 3)
	assert.Equal(t, 2, *response.TimeScale.BaseIndex)
	assert.Equal(t, []int{0, 1, 2}, indexes(response.Series[s].Data))
	assert.Equal(t, horzscale.WeightDay, response.TimeScale.Points[2].TimeWeight)

	// Whitespace replaces the last bar.
	response, err = l.UpdateSeriesData(s, whitespace(2))
	require.NoError(t, err)
	assert.False(t, response.Series[s].Info.LastBarUpdatedOrNewBarsAddedToTheRight)
	assert.Equal(t, []int{0, 1}, indexes(response.Series[s].Data))

	_, err = l.UpdateSeriesData(s, line(0, 1))
	assert.ErrorIs(t, err, ErrOldData)
}

func TestUpdateInsertsBeforeOtherSeries(t *testing.T) {
	l := newTestLayer()
	a := newLineSeries()
	b := newLineSeries()
	_, err := l.SetSeriesData(a, []chartapi.DataItem{line(0, 1), line(3, 2)})
	require.NoError(t, err)
	_, err = l.SetSeriesData(b, []chartapi.DataItem{line(0, 1)})
	require.NoError(t, err)

	response, err := l.UpdateSeriesData(b, line(1, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, response.TimeScale.FirstChangedPointIndex)
	assert.Equal(t, []int{0, 2}, indexes(response.Series[a].Data))
	assert.Equal(t, []int{0, 1}, indexes(response.Series[b].Data))
}
