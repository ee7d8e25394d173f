// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package initapp

import (
	"context"
	"maycharts/calendar"
	"maycharts/chartapi"
	"maycharts/chartapi/indicators"
	"maycharts/config"
	"maycharts/mock"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2023, 8, 14, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, change func(c *config.AppConfig)) *InitApp {
	c := mock.NewTestConfig()
	appConfig, err := c.Lock()
	require.NoError(t, err)
	change(appConfig)
	require.NoError(t, c.Unlock(appConfig))
	a := NewInitApp(c, nil)
	a.SetClock(func() time.Time { return testNow })
	return a
}

func TestBarGenerator(t *testing.T) {
	g := NewBarGenerator(calendar.NewUSBankCalendar(), 1, 50)
	candles := g.Generate(time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), 24*time.Hour, 3)
	require.Len(t, candles, 3)
	assert.Equal(t, time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC).Unix(), candles[0].Time)
	assert.Equal(t, time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC).Unix(), candles[1].Time)
	for _, c := range candles {
		assert.LessOrEqual(t, c.LowPrice.Cmp(c.OpenPrice), 0)
		assert.LessOrEqual(t, c.LowPrice.Cmp(c.ClosePrice), 0)
		assert.GreaterOrEqual(t, c.HighPrice.Cmp(c.OpenPrice), 0)
		assert.GreaterOrEqual(t, c.HighPrice.Cmp(c.ClosePrice), 0)
	}
	for i := 1; i < len(candles); i++ {
		assert.Equal(t, 0, candles[i].OpenPrice.Cmp(candles[i-1].ClosePrice))
	}

	again := NewBarGenerator(calendar.NewUSBankCalendar(), 1, 50).Generate(time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), 24*time.Hour, 3)
	assert.Equal(t, 0, again[2].ClosePrice.Cmp(candles[2].ClosePrice))
}

func TestRunDaily(t *testing.T) {
	scanner := mock.CaptureStandardLogger(t)
	a := newTestApp(t, func(c *config.AppConfig) {})
	chart, err := a.Run(context.Background())
	require.NoError(t, err)

	m := chart.Model()
	assert.Equal(t, defaultBarCount, chart.Candles.Bars().Size())
	assert.Len(t, m.TimeScale().Points(), defaultBarCount+config.NewDataConfig().FutureWhitespace)
	assert.Equal(t, defaultBarCount-1, m.TimeScale().BaseIndex())
	require.Len(t, chart.Indicators[indicators.DefaultID], 1)
	sma := chart.Indicators[indicators.DefaultID][0]
	assert.Equal(t, defaultBarCount-8, sma.Bars().Size())
	assert.Same(t, chart.Candles.PriceScale(), sma.PriceScale())

	visible := m.TimeScale().VisibleStrictRange()
	require.NotNil(t, visible)
	assert.LessOrEqual(t, visible.Left, 0)
	assert.GreaterOrEqual(t, visible.Right, len(m.TimeScale().Points())-1)
	assert.False(t, chart.Frames.Pending())

	require.True(t, scanner.Scan())
	assert.True(t, strings.HasPrefix(scanner.Text(), "price"), scanner.Text())
}

func TestRunIntradayWithSeparateIndicator(t *testing.T) {
	a := newTestApp(t, func(c *config.AppConfig) {
		c.Data.Resolution = "30m"
		c.Data.FutureWhitespace = 5
		c.Indicators = []config.IndicatorConfig{{ID: "stochastics"}, {ID: "bollinger", Properties: map[string]string{"Time Units": "10"}}}
	})
	chart, err := a.Run(context.Background())
	require.NoError(t, err)

	m := chart.Model()
	assert.Len(t, m.TimeScale().Points(), defaultBarCount+5)
	stochastics := chart.Indicators["stochastics"]
	require.Len(t, stochastics, 2)
	_, priceScale, ok := m.FindPriceScale("stochastics")
	require.True(t, ok)
	assert.Same(t, priceScale, stochastics[0].PriceScale())
	assert.True(t, m.Panes()[0].IsOverlay(stochastics[1]))
	assert.Len(t, chart.Indicators["bollinger"], 3)
	assert.Equal(t, defaultBarCount-9, chart.Indicators["bollinger"][0].Bars().Size())
}

func TestRunUnknownIndicator(t *testing.T) {
	a := newTestApp(t, func(c *config.AppConfig) {
		c.Indicators = []config.IndicatorConfig{{ID: "macd"}}
	})
	_, err := a.Run(context.Background())
	assert.ErrorIs(t, err, indicators.ErrUnknownIndicator)
}

type testLoader struct {
	candles  []chartapi.CandleData
	requests int
}

func (l *testLoader) LoadOrRequest(ctx context.Context, symbol, resolution string, req func(ctx context.Context) ([]chartapi.CandleData, error)) ([]chartapi.CandleData, error) {
	if l.candles == nil {
		l.requests++
		var err error
		l.candles, err = req(ctx)
		return l.candles, err
	}
	return l.candles, nil
}

func TestRunWithLoader(t *testing.T) {
	loader := &testLoader{}
	a := NewInitApp(mock.NewTestConfig(), loader)
	a.SetClock(func() time.Time { return testNow })
	a.SetSize(400, 300)
	_, err := a.Run(context.Background())
	require.NoError(t, err)
	chart, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loader.requests)
	assert.Equal(t, 400.0, chart.Model().Width())
	assert.Equal(t, 300.0, chart.Candles.PriceScale().Height())
}
