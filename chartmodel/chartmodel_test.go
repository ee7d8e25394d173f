// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"maycharts/chartapi"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"maycharts/pricescale"
	"maycharts/series"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

const testDay = int64(86400)

// 2023-01-02
const testStart = int64(1672617600)

func newTestChart(options Options) (*FrameScheduler, *ChartModel) {
	f := NewFrameScheduler(options, horzscale.NewTimeBehavior(horzscale.TimeBehaviorOptions{}))
	m := f.Model()
	m.SetWidth(600)
	m.SetPaneHeight(m.Panes()[0], 400)
	return f, m
}

func drainFrames(f *FrameScheduler, now time.Time) {
	for i := 0; i < 10 && f.Pending(); i++ {
		f.Frame(now)
	}
}

func candle(t int64, o, c float64) chartapi.DataItem {
	return chartapi.CandleData{
		Time:       t,
		OpenPrice:  chartval.ConvertFloatToDecimal(o, 64),
		ClosePrice: chartval.ConvertFloatToDecimal(c, 64),
	}
}

func dailyLine(count int) []chartapi.DataItem {
	items := make([]chartapi.DataItem, count)
	for i := range items {
		items[i] = chartapi.LineData{Time: testStart + int64(i)*testDay, Value: chartval.ConvertFloatToDecimal(float64(100+i%7), 64)}
	}
	return items
}

func newLineChart(t *testing.T, options Options, count int) (*FrameScheduler, *ChartModel, *series.Series) {
	f, m := newTestChart(options)
	s := m.CreateSeries(chartapi.SeriesTypeLine, series.DefaultOptions(chartapi.SeriesTypeLine))
	require.NoError(t, m.SetSeriesData(s, dailyLine(count)))
	drainFrames(f, testNow)
	return f, m, s
}

func TestFitContentThreeCandles(t *testing.T) {
	f, m := newTestChart(DefaultOptions())
	s := m.CreateSeries(chartapi.SeriesTypeCandlestick, series.DefaultOptions(chartapi.SeriesTypeCandlestick))
	require.NoError(t, m.SetSeriesData(s, []chartapi.DataItem{candle(1, 10, 12), candle(2, 12, 11), candle(3, 11, 13)}))
	m.FitContent()
	mask := f.Frame(testNow)
	require.NotNil(t, mask)

	timeScale := m.TimeScale()
	assert.Equal(t, 2, timeScale.BaseIndex())
	visibleBars := timeScale.VisibleStrictRange()
	require.NotNil(t, visibleBars)
	assert.LessOrEqual(t, visibleBars.Left, 0)
	assert.GreaterOrEqual(t, visibleBars.Right, 2)

	priceRange := s.PriceScale().PriceRange()
	require.NotNil(t, priceRange)
	assert.LessOrEqual(t, priceRange.Min, 10.0)
	assert.GreaterOrEqual(t, priceRange.Max, 13.0)
	assert.Equal(t, RightPriceScaleID, s.PriceScale().ID())
	assert.NotEmpty(t, s.PriceScale().Marks())
}

func TestSetSeriesDataErrors(t *testing.T) {
	_, m, s := newLineChart(t, DefaultOptions(), 5)
	err := m.SetSeriesData(s, []chartapi.DataItem{candle(5, 1, 1), candle(4, 1, 1)})
	assert.ErrorIs(t, err, chartapi.ErrUnorderedData)
	err = m.UpdateSeriesData(s, chartapi.LineData{Time: testStart - testDay, Value: chartval.ConvertFloatToDecimal(1, 64)})
	assert.Error(t, err)
	assert.Equal(t, 4, m.TimeScale().BaseIndex())
}

func TestNewBarShiftsVisibleRange(t *testing.T) {
	_, m, s := newLineChart(t, DefaultOptions(), 100)
	assert.Equal(t, chartval.Range[int]{Left: 0, Right: 99}, *m.TimeScale().VisibleStrictRange())

	require.NoError(t, m.UpdateSeriesData(s, chartapi.LineData{Time: testStart + 100*testDay, Value: chartval.ConvertFloatToDecimal(1, 64)}))
	assert.Equal(t, 100, m.TimeScale().BaseIndex())
	assert.Equal(t, 0.0, m.TimeScale().RightOffset())
	assert.Equal(t, chartval.Range[int]{Left: 1, Right: 100}, *m.TimeScale().VisibleStrictRange())
}

func TestNewBarKeepsVisibleRange(t *testing.T) {
	options := DefaultOptions()
	options.TimeScale.ShiftVisibleRangeOnNewBar = false
	_, m, s := newLineChart(t, options, 100)

	require.NoError(t, m.UpdateSeriesData(s, chartapi.LineData{Time: testStart + 100*testDay, Value: chartval.ConvertFloatToDecimal(1, 64)}))
	assert.Equal(t, 100, m.TimeScale().BaseIndex())
	assert.Equal(t, -1.0, m.TimeScale().RightOffset())
	assert.Equal(t, chartval.Range[int]{Left: 0, Right: 99}, *m.TimeScale().VisibleStrictRange())
}

func TestAnimatedScroll(t *testing.T) {
	f, m, _ := newLineChart(t, DefaultOptions(), 100)
	m.TimeScale().SetClock(func() time.Time { return testNow })
	m.TimeScale().ScrollToOffsetAnimated(10, 400*time.Millisecond)
	require.True(t, f.Pending())

	f.Frame(testNow.Add(200 * time.Millisecond))
	assert.InDelta(t, 5.0, m.TimeScale().RightOffset(), chartval.NearZero)
	// The animation is not finished and continues with the next frame.
	require.True(t, f.Pending())

	mask := f.Frame(testNow.Add(500 * time.Millisecond))
	require.NotNil(t, mask)
	assert.Equal(t, 10.0, m.TimeScale().RightOffset())

	drainFrames(f, testNow.Add(time.Second))
	assert.False(t, f.Pending())
	assert.Nil(t, f.Frame(testNow.Add(2*time.Second)))
}

func TestBarSpacingAndOffsetViaFrame(t *testing.T) {
	f, m, _ := newLineChart(t, DefaultOptions(), 100)
	m.SetBarSpacing(12)
	m.SetRightOffset(5)
	f.Frame(testNow)
	assert.Equal(t, 12.0, m.TimeScale().BarSpacing())
	assert.Equal(t, 5.0, m.TimeScale().RightOffset())

	m.ResetTimeScale()
	f.Frame(testNow)
	assert.Equal(t, 6.0, m.TimeScale().BarSpacing())
	assert.Equal(t, 0.0, m.TimeScale().RightOffset())

	m.SetTargetLogicalRange(chartval.NewRange(50.0, 99.0))
	f.Frame(testNow)
	assert.Equal(t, chartval.Range[int]{Left: 50, Right: 99}, *m.TimeScale().VisibleStrictRange())
}

func TestPriceScaleOptions(t *testing.T) {
	_, m, s := newLineChart(t, DefaultOptions(), 10)
	err := m.ApplyPriceScaleOptions("unknown", pricescale.DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownPriceScale)

	options := pricescale.DefaultOptions()
	options.Mode = pricescale.Percentage
	require.NoError(t, m.ApplyPriceScaleOptions(RightPriceScaleID, options))
	assert.True(t, s.PriceScale().IsPercentage())
	assert.Equal(t, pricescale.Percentage, m.Options().RightPriceScale.Mode)
}

func TestMoveSeriesToScale(t *testing.T) {
	_, m, s := newLineChart(t, DefaultOptions(), 10)
	pane := m.Panes()[0]
	m.MoveSeriesToScale(s, "volume")
	assert.Equal(t, PriceScaleOverlay, pane.PriceScalePosition(s.PriceScale()))
	assert.True(t, pane.IsOverlay(s))
	_, overlay, ok := m.FindPriceScale("volume")
	require.True(t, ok)
	assert.Equal(t, 400.0, overlay.Height())
	assert.Equal(t, "volume", s.Options().PriceScaleID)
	require.NoError(t, m.ApplyPriceScaleOptions("volume", m.Options().OverlayPriceScales))

	m.MoveSeriesToScale(s, LeftPriceScaleID)
	assert.Equal(t, PriceScaleLeft, pane.PriceScalePosition(s.PriceScale()))
	_, _, ok = m.FindPriceScale("volume")
	assert.False(t, ok)
	assert.Same(t, pane.LeftPriceScale(), pane.DefaultPriceScale())
}

func TestRemoveSeries(t *testing.T) {
	_, m, s := newLineChart(t, DefaultOptions(), 10)
	other := m.CreateSeries(chartapi.SeriesTypeLine, series.DefaultOptions(chartapi.SeriesTypeLine))
	require.NoError(t, m.SetSeriesData(other, dailyLine(20)))
	assert.Equal(t, 19, m.TimeScale().BaseIndex())

	m.RemoveSeries(other)
	assert.Len(t, m.Series(), 1)
	assert.Len(t, m.TimeScale().Points(), 10)
	assert.Equal(t, 9, m.TimeScale().BaseIndex())
	assert.Nil(t, m.PaneForSource(other))
	assert.Panics(t, func() { m.RemoveSeries(other) })

	m.RemoveSeries(s)
	assert.Empty(t, m.TimeScale().Points())
	assert.True(t, m.TimeScale().IsEmpty())
	assert.Panics(t, func() { m.Panes()[0].RemoveDataSource(s) })
}

func TestPanes(t *testing.T) {
	f, m, s := newLineChart(t, DefaultOptions(), 10)
	assert.Equal(t, float64(DefaultStretchFactor*2), m.Panes()[0].StretchFactor())
	pane := m.CreatePane()
	assert.Len(t, m.Panes(), 2)
	assert.Equal(t, float64(DefaultStretchFactor), pane.StretchFactor())
	mask := f.Frame(testNow)
	require.NotNil(t, mask)
	assert.True(t, mask.InvalidateForPane(1).AutoScale)
	assert.Equal(t, InvalidationFull, mask.FullInvalidation())

	m.RemovePane(1)
	assert.Len(t, m.Panes(), 1)
	// The last pane stays.
	m.RemovePane(0)
	assert.Len(t, m.Panes(), 1)
	assert.Same(t, m.Panes()[0], m.PaneForSource(s))
}

func TestCrosshairMagnet(t *testing.T) {
	f, m := newTestChart(DefaultOptions())
	s := m.CreateSeries(chartapi.SeriesTypeCandlestick, series.DefaultOptions(chartapi.SeriesTypeCandlestick))
	require.NoError(t, m.SetSeriesData(s, []chartapi.DataItem{candle(1, 10, 12), candle(2, 12, 11), candle(3, 11, 13)}))
	m.FitContent()
	f.Frame(testNow)

	var events []CrosshairMoved
	m.OnCrosshairMoved().Subscribe(func(e CrosshairMoved) { events = append(events, e) }, t, false)

	pane := m.Panes()[0]
	priceScale := s.PriceScale()
	firstValue, ok := priceScale.FirstValue()
	require.True(t, ok)
	x := m.TimeScale().IndexToCoordinate(1)
	y := priceScale.PriceToCoordinate(11.8, firstValue)
	m.SetAndSaveCurrentPosition(x, y, pane)

	crosshair := m.Crosshair()
	assert.True(t, crosshair.Visible())
	assert.Equal(t, 1, crosshair.AppliedIndex())
	assert.Equal(t, 12.0, crosshair.AppliedPrice())
	assert.Equal(t, x, crosshair.AppliedX())
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Index)

	// Outside of the visible range the index is clamped.
	m.SetAndSaveCurrentPosition(m.TimeScale().Width()+500, y, pane)
	assert.Equal(t, 2, crosshair.AppliedIndex())

	options := m.Options()
	options.Crosshair.Mode = CrosshairNormal
	m.ApplyOptions(options)
	m.SetAndSaveCurrentPosition(x, y, pane)
	assert.InDelta(t, 11.8, crosshair.AppliedPrice(), 1e-9)

	m.ClearCurrentPosition()
	assert.False(t, crosshair.Visible())
	assert.Nil(t, crosshair.Pane())
	assert.True(t, events[len(events)-1].Cleared)
	m.OnCrosshairMoved().UnsubscribeAll(t)
}

func TestGesturesDisabled(t *testing.T) {
	options := DefaultOptions()
	options.HandleScroll = false
	options.HandleScale = false
	_, m, _ := newLineChart(t, options, 100)
	assert.True(t, m.ScrollingAndScalingDisabled())
	m.StartScrollTime(300)
	m.ScrollTimeTo(200)
	m.EndScrollTime()
	assert.Equal(t, 0.0, m.TimeScale().RightOffset())
	m.ZoomTime(300, 2)
	assert.Equal(t, 6.0, m.TimeScale().BarSpacing())

	// Scrolling through the api works anyway.
	m.ScrollChart(-60)
	assert.InDelta(t, 10.0, m.TimeScale().RightOffset(), chartval.NearZero)
}

func TestScaleDisabledWhileScrolling(t *testing.T) {
	options := DefaultOptions()
	options.HandleScale = false
	_, m, _ := newLineChart(t, options, 100)
	m.StartScrollTime(300)
	m.StartScaleTime(200)
	assert.NotPanics(t, func() { m.ScaleTimeTo(250) })
	m.EndScaleTime()
	assert.Equal(t, 6.0, m.TimeScale().BarSpacing())

	m.ScrollTimeTo(240)
	m.EndScrollTime()
	assert.InDelta(t, 10.0, m.TimeScale().RightOffset(), chartval.NearZero)
}

func TestPriceGestures(t *testing.T) {
	_, m, s := newLineChart(t, DefaultOptions(), 100)
	pane := m.Panes()[0]
	priceScale := s.PriceScale()
	before := *priceScale.PriceRange()

	// Scrolling requires autoscale to be off.
	m.StartScrollPrice(pane, priceScale, 100)
	m.ScrollPriceTo(pane, priceScale, 150)
	m.EndScrollPrice(pane, priceScale)
	assert.Equal(t, before, *priceScale.PriceRange())

	m.StartScalePrice(pane, priceScale, 100)
	m.ScalePriceTo(pane, priceScale, 150)
	m.EndScalePrice(pane, priceScale)
	assert.False(t, priceScale.IsAutoScale())
	assert.Greater(t, priceScale.PriceRange().Length(), before.Length())

	m.ResetPriceScale(pane, priceScale)
	assert.True(t, priceScale.IsAutoScale())
	assert.InDelta(t, before.Min, priceScale.PriceRange().Min, 1e-9)
	assert.InDelta(t, before.Max, priceScale.PriceRange().Max, 1e-9)
}
