// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package sma

import (
	"log"
	"maycharts/chartapi"
	"maycharts/chartapi/calc"
	"maycharts/chartapi/indicators/lines"
	"maycharts/chartapi/properties"
	"strconv"

	"github.com/cinar/indicator"
)

const ID = "sma"

type Indicator struct {
	numPeriods int
}

func NewIndicator() chartapi.Indicator {
	return &Indicator{numPeriods: 9}
}

func (d *Indicator) ID() chartapi.IndicatorID {
	return ID
}

func (d *Indicator) Properties() map[string]string {
	return map[string]string{
		"Time Periods": strconv.Itoa(d.numPeriods),
	}
}

func (d *Indicator) SetProperties(prop map[string]string) {
	for key, value := range prop {
		switch key {
		case "Time Periods":
			properties.SetPositiveValue(&d.numPeriods, value)
		default:
			log.Printf("Unknown property %s was ignored.", key)
		}
	}
}

func (d *Indicator) Placement() chartapi.IndicatorPlacement {
	return chartapi.PlacementOverlay
}

func (d *Indicator) Calculate(candles []chartapi.CandleData) []chartapi.IndicatorLine {
	c := calc.SplitCandles(candles)
	result := indicator.Sma(d.numPeriods, c.Closes)
	return []chartapi.IndicatorLine{
		{Name: "SMA", Data: lines.FromFloats(c.Times, result, d.numPeriods-1)},
	}
}
