// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package series

import (
	"math"
	"maycharts/chartapi"
	"maycharts/chartval"
	"maycharts/plotlist"
	"maycharts/pricescale"
)

// TimeScale is the part of the time scale a series needs to find its visible bars.
type TimeScale interface {
	VisibleStrictRange() *chartval.Range[int]
}

// Series is a price data source of a given type. It implements pricescale.DataSource.
type Series struct {
	seriesType chartapi.SeriesType
	options    Options
	data       *plotlist.PlotList
	timeScale  TimeScale
	priceScale *pricescale.PriceScale
	formatter  chartval.Formatter
	zOrder     int
}

func NewSeries(seriesType chartapi.SeriesType, options Options, timeScale TimeScale) *Series {
	s := &Series{
		seriesType: seriesType,
		options:    options,
		data:       plotlist.NewPlotList(),
		timeScale:  timeScale,
	}
	s.recreateFormatter()
	return s
}

func (s *Series) SeriesType() chartapi.SeriesType {
	return s.seriesType
}

func (s *Series) Options() Options {
	return s.options
}

func (s *Series) ApplyOptions(options Options) {
	formatChanged := options.PriceFormat != s.options.PriceFormat
	s.options = options
	if formatChanged {
		s.recreateFormatter()
	}
}

func (s *Series) Title() string {
	return s.options.Title
}

func (s *Series) Bars() *plotlist.PlotList {
	return s.data
}

// SetData replaces all rows, whitespace rows are dropped.
func (s *Series) SetData(rows []*plotlist.Row) {
	s.data.SetData(rows)
}

func (s *Series) PriceScale() *pricescale.PriceScale {
	return s.priceScale
}

func (s *Series) SetPriceScale(priceScale *pricescale.PriceScale) {
	if s.priceScale == priceScale {
		return
	}
	s.priceScale = priceScale
}

func (s *Series) ZOrder() int {
	return s.zOrder
}

func (s *Series) SetZOrder(zOrder int) {
	s.zOrder = zOrder
}

func (s *Series) Visible() bool {
	return s.options.Visible
}

func (s *Series) MinMove() float64 {
	return s.options.PriceFormat.MinMove
}

func (s *Series) Formatter() chartval.Formatter {
	return s.formatter
}

func (s *Series) FormatPrice(price float64) string {
	return s.formatter.Format(price)
}

func (s *Series) recreateFormatter() {
	format := s.options.PriceFormat
	switch format.Type {
	case PriceFormatVolume:
		s.formatter = chartval.NewVolumeFormatter(format.Precision)
	case PriceFormatPercent:
		s.formatter = chartval.NewPercentageFormatter()
	default:
		s.formatter = chartval.NewPriceFormatterForPrecision(format.Precision, format.MinMove)
	}
	if s.priceScale != nil {
		s.priceScale.UpdateFormatter()
	}
}

// FirstBar is the first bar at or after the left edge of the visible range.
func (s *Series) FirstBar() *plotlist.Row {
	visibleBars := s.timeScale.VisibleStrictRange()
	if visibleBars == nil {
		return nil
	}
	return s.data.Search(visibleBars.Left, plotlist.NearestRight)
}

// FirstValue is the close value of the first visible bar, the base value of percentage scales.
func (s *Series) FirstValue() (pricescale.FirstValueInfo, bool) {
	bar := s.FirstBar()
	if bar == nil {
		return pricescale.FirstValueInfo{}, false
	}
	return pricescale.FirstValueInfo{Value: bar.Value[plotlist.Close], Index: bar.Index}, true
}

// LastValue is the close value of the last bar.
func (s *Series) LastValue() (float64, bool) {
	last := s.data.Last()
	if last == nil {
		return math.NaN(), false
	}
	return last.Value[plotlist.Close], true
}

func (s *Series) autoscalePlots() []plotlist.ValueIndex {
	if s.seriesType.IsBarLike() || s.seriesType == chartapi.SeriesTypeCustom {
		return []plotlist.ValueIndex{plotlist.High, plotlist.Low}
	}
	return []plotlist.ValueIndex{plotlist.Close}
}

func (s *Series) autoscaleInfoImpl(startIndex, endIndex int) *pricescale.AutoscaleInfo {
	minMax := s.data.MinMaxOnRangeCached(startIndex, endIndex, s.autoscalePlots())
	if minMax == nil {
		return nil
	}
	r := pricescale.NewPriceRange(minMax.Min, minMax.Max)
	return &pricescale.AutoscaleInfo{PriceRange: &r}
}

// AutoscaleInfo returns the raw value range of the bars within [startIndex, endIndex].
func (s *Series) AutoscaleInfo(startIndex, endIndex int) *pricescale.AutoscaleInfo {
	if s.options.AutoscaleInfoProvider != nil {
		return s.options.AutoscaleInfoProvider(func() *pricescale.AutoscaleInfo {
			return s.autoscaleInfoImpl(startIndex, endIndex)
		})
	}
	return s.autoscaleInfoImpl(startIndex, endIndex)
}
