// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package stochastics

import (
	"log"
	"maycharts/chartapi"
	"maycharts/chartapi/calc"
	"maycharts/chartapi/indicators/lines"

	"github.com/cinar/indicator"
)

const ID = "stochastics"

// Number of candles used for %K, %D is a 3 candle average of %K.
const (
	kPeriods = 14
	dPeriods = 3
)

type Indicator struct{}

func NewIndicator() chartapi.Indicator {
	return &Indicator{}
}

func (d *Indicator) ID() chartapi.IndicatorID {
	return ID
}

func (d *Indicator) Properties() map[string]string {
	return map[string]string{}
}

func (d *Indicator) SetProperties(prop map[string]string) {
	for key := range prop {
		log.Printf("Unknown property %s was ignored.", key)
	}
}

func (d *Indicator) Placement() chartapi.IndicatorPlacement {
	return chartapi.PlacementSeparate
}

func (d *Indicator) Calculate(candles []chartapi.CandleData) []chartapi.IndicatorLine {
	c := calc.SplitCandles(candles)
	k, dValues := indicator.StochasticOscillator(c.Highs, c.Lows, c.Closes)
	return []chartapi.IndicatorLine{
		{Name: "%K", Data: lines.FromFloats(c.Times, k, kPeriods-1)},
		{Name: "%D", Data: lines.FromFloats(c.Times, dValues, kPeriods+dPeriods-2)},
	}
}
