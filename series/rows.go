// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package series

import (
	"log"
	"math"
	"maycharts/chartapi"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"maycharts/plotlist"
)

func whitespaceRow(index int, t horzscale.TimePoint, originalTime any) *plotlist.Row {
	return &plotlist.Row{Index: index, Time: t, OriginalTime: originalTime, Whitespace: true}
}

func barRow(index int, t horzscale.TimePoint, item chartapi.CandleData) *plotlist.Row {
	closePrice := chartval.ConvertDecimalToFloat(item.ClosePrice)
	openPrice := closePrice
	if item.OpenPrice != nil {
		openPrice = chartval.ConvertDecimalToFloat(item.OpenPrice)
	}
	highPrice := math.Max(openPrice, closePrice)
	if item.HighPrice != nil {
		highPrice = chartval.ConvertDecimalToFloat(item.HighPrice)
	}
	lowPrice := math.Min(openPrice, closePrice)
	if item.LowPrice != nil {
		lowPrice = chartval.ConvertDecimalToFloat(item.LowPrice)
	}
	return &plotlist.Row{
		Index:        index,
		Time:         t,
		OriginalTime: item.Time,
		Value:        [4]float64{openPrice, highPrice, lowPrice, closePrice},
		Color:        item.Color,
		BorderColor:  item.BorderColor,
		WickColor:    item.WickColor,
	}
}

func lineRow(index int, t horzscale.TimePoint, item chartapi.LineData) *plotlist.Row {
	v := chartval.ConvertDecimalToFloat(item.Value)
	return &plotlist.Row{
		Index:        index,
		Time:         t,
		OriginalTime: item.Time,
		Value:        [4]float64{v, v, v, v},
		Color:        item.Color,
	}
}

func customRow(index int, t horzscale.TimePoint, item chartapi.CustomData, values []float64) *plotlist.Row {
	if len(values) == 0 {
		return whitespaceRow(index, t, item.Time)
	}
	last := values[len(values)-1]
	high, low := math.Inf(-1), math.Inf(1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		high = math.Max(high, v)
		low = math.Min(low, v)
	}
	if math.IsInf(high, 0) {
		high, low = math.NaN(), math.NaN()
	}
	return &plotlist.Row{
		Index:        index,
		Time:         t,
		OriginalTime: item.Time,
		Value:        [4]float64{last, high, low, last},
		Color:        item.Color,
	}
}

// CreateRow converts an item into a row of this series. Items which do not fit the
// series type are logged and stored as whitespace.
func (s *Series) CreateRow(index int, t horzscale.TimePoint, item chartapi.DataItem) *plotlist.Row {
	if item.IsWhitespace() {
		return whitespaceRow(index, t, item.GetTime())
	}
	switch v := item.(type) {
	case chartapi.CandleData:
		if s.seriesType.IsBarLike() {
			return barRow(index, t, v)
		}
	case chartapi.LineData:
		if s.seriesType == chartapi.SeriesTypeLine {
			return lineRow(index, t, v)
		}
	case chartapi.CustomData:
		if s.seriesType == chartapi.SeriesTypeCustom {
			values := v.Values
			if s.options.CustomValues != nil {
				values = s.options.CustomValues(v)
			}
			return customRow(index, t, v, values)
		}
	}
	log.Printf("Skipping %T item in %v series.", item, s.seriesType)
	return whitespaceRow(index, t, item.GetTime())
}
