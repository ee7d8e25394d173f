// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package bollinger

import (
	"log"
	"maycharts/chartapi"
	"maycharts/chartapi/calc"
	"maycharts/chartapi/indicators/lines"
	"maycharts/chartapi/properties"
	"strconv"

	"github.com/ericlagergren/decimal"
)

const ID = "bollinger"

type Indicator struct {
	timeUnits int
	bandWidth int
}

func NewIndicator() chartapi.Indicator {
	return &Indicator{timeUnits: 20, bandWidth: 2}
}

func (d *Indicator) ID() chartapi.IndicatorID {
	return ID
}

func (d *Indicator) Properties() map[string]string {
	return map[string]string{
		"Width":      strconv.Itoa(d.bandWidth),
		"Time Units": strconv.Itoa(d.timeUnits),
	}
}

func (d *Indicator) SetProperties(prop map[string]string) {
	for key, value := range prop {
		switch key {
		case "Width":
			properties.SetPositiveValue(&d.bandWidth, value)
		case "Time Units":
			properties.SetPositiveValue(&d.timeUnits, value)
		default:
			log.Printf("Unknown property %s was ignored.", key)
		}
	}
}

func (d *Indicator) Placement() chartapi.IndicatorPlacement {
	return chartapi.PlacementOverlay
}

// Calculate returns the upper band, the mean and the lower band. Bands start with the first full window.
func (d *Indicator) Calculate(candles []chartapi.CandleData) []chartapi.IndicatorLine {
	c := calc.SplitCandles(candles)
	top := make([]*decimal.Big, c.Len())
	mid := make([]*decimal.Big, c.Len())
	bottom := make([]*decimal.Big, c.Len())
	width := decimal.New(int64(d.bandWidth), 0)
	for i := d.timeUnits - 1; i < c.Len(); i++ {
		subSet := c.Close[i+1-d.timeUnits : i+1]
		mean := calc.Mean(new(decimal.Big), subSet)
		stdDev := calc.StdDev(new(decimal.Big), subSet)
		stdDev.Mul(stdDev, width)
		top[i] = new(decimal.Big).Add(mean, stdDev)
		mid[i] = mean
		bottom[i] = new(decimal.Big).Sub(mean, stdDev)
	}
	return []chartapi.IndicatorLine{
		{Name: "Upper", Data: lines.FromDecimals(c.Times, top)},
		{Name: "Middle", Data: lines.FromDecimals(c.Times, mid)},
		{Name: "Lower", Data: lines.FromDecimals(c.Times, bottom)},
	}
}
