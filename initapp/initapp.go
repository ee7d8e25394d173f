// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package initapp

import (
	"context"
	"fmt"
	"log"
	"maycharts/barcache"
	"maycharts/calendar"
	"maycharts/chartapi"
	"maycharts/chartapi/horzscale"
	"maycharts/chartapi/indicators"
	"maycharts/chartmodel"
	"maycharts/config"
	"maycharts/series"
	"time"
)

const (
	defaultWidth     = 800
	defaultHeight    = 500
	defaultBarCount  = 250
	defaultStartDays = 400
	generatorSeed    = 42
	generatorStart   = 100
	maxInitialFrames = 10
)

// BarLoader loads bars, requesting them on a cache miss.
type BarLoader interface {
	LoadOrRequest(ctx context.Context, symbol, resolution string, req func(ctx context.Context) ([]chartapi.CandleData, error)) ([]chartapi.CandleData, error)
}

// Chart is a chart built from the configuration.
type Chart struct {
	Frames     *chartmodel.FrameScheduler
	Candles    *series.Series
	Indicators map[chartapi.IndicatorID][]*series.Series
}

func (c *Chart) Model() *chartmodel.ChartModel {
	return c.Frames.Model()
}

type InitApp struct {
	config   config.Config
	loader   BarLoader
	calendar calendar.BankCalendar
	now      func() time.Time
	width    float64
	height   float64
}

// NewInitApp uses loader to cache bars. A nil loader generates bars on every run.
func NewInitApp(c config.Config, loader BarLoader) *InitApp {
	return &InitApp{
		config:   c,
		loader:   loader,
		calendar: calendar.NewUSBankCalendar(),
		now:      time.Now,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// NewBarCache creates a bar cache as configured.
func NewBarCache(c config.Config) (*barcache.BarCache, error) {
	appConfig, err := c.Copy()
	if err != nil {
		return nil, err
	}
	return barcache.New(c.GetAppName(), appConfig.Data.CacheMaxAge())
}

func (a *InitApp) SetClock(now func() time.Time) {
	a.now = now
}

func (a *InitApp) SetSize(width, height float64) {
	a.width = width
	a.height = height
}

// Run builds the chart, applies the first frame and logs the tick marks.
func (a *InitApp) Run(ctx context.Context) (*Chart, error) {
	appConfig, err := a.config.Copy()
	if err != nil {
		return nil, err
	}
	step, err := appConfig.Data.ResolutionDuration()
	if err != nil {
		return nil, err
	}
	candles, err := a.loadBars(ctx, appConfig.Data, step)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no %s bars available", appConfig.Data.Symbol)
	}

	timeOptions := appConfig.Time
	if !appConfig.Data.IsDaily() {
		timeOptions.TimeVisible = true
	}
	chart := &Chart{
		Frames:     chartmodel.NewFrameScheduler(appConfig.Chart, horzscale.NewTimeBehavior(timeOptions)),
		Indicators: make(map[chartapi.IndicatorID][]*series.Series),
	}
	m := chart.Model()
	m.SetWidth(a.width)
	m.SetPaneHeight(m.Panes()[0], a.height)

	candleOptions := series.DefaultOptions(chartapi.SeriesTypeCandlestick)
	candleOptions.Title = appConfig.Data.Symbol
	chart.Candles = m.CreateSeries(chartapi.SeriesTypeCandlestick, candleOptions)
	if err := m.SetSeriesData(chart.Candles, a.withFutureWhitespace(candles, appConfig.Data, step)); err != nil {
		return nil, err
	}
	for _, indicatorConfig := range appConfig.Indicators {
		if err := a.addIndicator(chart, indicatorConfig, candles); err != nil {
			return nil, err
		}
	}

	m.FitContent()
	for i := 0; i < maxInitialFrames && chart.Frames.Pending(); i++ {
		chart.Frames.Frame(a.now())
	}
	logMarks(chart)
	return chart, nil
}

func (a *InitApp) loadBars(ctx context.Context, data config.DataConfig, step time.Duration) ([]chartapi.CandleData, error) {
	generate := func(ctx context.Context) ([]chartapi.CandleData, error) {
		from := a.now().AddDate(0, 0, -defaultStartDays)
		if step < 24*time.Hour {
			from = a.now().Add(-step * defaultBarCount)
		}
		return NewBarGenerator(a.calendar, generatorSeed, generatorStart).Generate(from, step, defaultBarCount), nil
	}
	if a.loader == nil {
		return generate(ctx)
	}
	return a.loader.LoadOrRequest(ctx, data.Symbol, data.Resolution, generate)
}

func (a *InitApp) withFutureWhitespace(candles []chartapi.CandleData, data config.DataConfig, step time.Duration) []chartapi.DataItem {
	items := make([]chartapi.DataItem, 0, len(candles)+data.FutureWhitespace)
	for _, c := range candles {
		items = append(items, c)
	}
	if data.FutureWhitespace == 0 {
		return items
	}
	last, ok := lastTime(candles)
	if !ok {
		log.Printf("Unsupported time type %T, future whitespace is not available.", candles[len(candles)-1].Time)
		return items
	}
	if data.IsDaily() {
		return append(items, a.calendar.FutureDailyWhitespace(last, data.FutureWhitespace)...)
	}
	return append(items, a.calendar.FutureIntradayWhitespace(last, step, data.FutureWhitespace)...)
}

func lastTime(candles []chartapi.CandleData) (time.Time, bool) {
	switch t := candles[len(candles)-1].Time.(type) {
	case int64:
		return time.Unix(t, 0).UTC(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func (a *InitApp) addIndicator(chart *Chart, c config.IndicatorConfig, candles []chartapi.CandleData) error {
	ind, err := indicators.Create(c.ID, c.Properties)
	if err != nil {
		return err
	}
	m := chart.Model()
	priceScaleID := chartapi.PriceScaleID(ind, chart.Candles.Options().PriceScaleID)
	for _, line := range ind.Calculate(candles) {
		options := series.DefaultOptions(chartapi.SeriesTypeLine)
		options.Title = line.Name
		options.PriceScaleID = priceScaleID
		options.Color = c.Color
		s := m.CreateSeries(chartapi.SeriesTypeLine, options)
		items := make([]chartapi.DataItem, len(line.Data))
		for i := range line.Data {
			items[i] = line.Data[i]
		}
		if err := m.SetSeriesData(s, items); err != nil {
			return fmt.Errorf("indicator %s: %w", c.ID, err)
		}
		chart.Indicators[c.ID] = append(chart.Indicators[c.ID], s)
	}
	return nil
}

func logMarks(chart *Chart) {
	m := chart.Model()
	priceScale := chart.Candles.PriceScale()
	for _, mark := range priceScale.Marks() {
		log.Printf("price %8s at y=%.1f", mark.Label, mark.Coord)
	}
	for _, mark := range m.TimeScale().Marks() {
		log.Printf("time %8s at x=%.1f", mark.Label, mark.Coord)
	}
	if visible := m.TimeScale().VisibleStrictRange(); visible != nil {
		log.Printf("%s: %d bars, visible %d to %d", chart.Candles.Title(), chart.Candles.Bars().Size(), visible.Left, visible.Right)
	}
}
