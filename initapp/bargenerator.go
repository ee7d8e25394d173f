// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package initapp

import (
	"math"
	"math/rand"
	"maycharts/calendar"
	"maycharts/chartapi"
	"maycharts/chartval"
	"time"

	"github.com/ericlagergren/decimal"
)

// BarGenerator creates a reproducible random walk on the trading days of a calendar.
type BarGenerator struct {
	calendar calendar.BankCalendar
	seed     int64
	start    float64
}

func NewBarGenerator(c calendar.BankCalendar, seed int64, start float64) *BarGenerator {
	return &BarGenerator{calendar: c, seed: seed, start: start}
}

// Generate returns count bars after from. A step of 24 hours or more creates daily bars.
func (g *BarGenerator) Generate(from time.Time, step time.Duration, count int) []chartapi.CandleData {
	var slots []chartapi.DataItem
	if step >= 24*time.Hour {
		slots = g.calendar.FutureDailyWhitespace(from, count)
	} else {
		slots = g.calendar.FutureIntradayWhitespace(from, step, count)
	}
	r := rand.New(rand.NewSource(g.seed))
	price := g.start
	candles := make([]chartapi.CandleData, len(slots))
	for i, slot := range slots {
		open := price
		price = math.Max(0.01, price*(1+r.NormFloat64()*0.01))
		high := math.Max(open, price) * (1 + r.Float64()*0.005)
		low := math.Min(open, price) * (1 - r.Float64()*0.005)
		candles[i] = chartapi.CandleData{
			Time:       slot.GetTime(),
			OpenPrice:  roundedDecimal(open),
			HighPrice:  roundedDecimal(high),
			LowPrice:   roundedDecimal(low),
			ClosePrice: roundedDecimal(price),
		}
	}
	return candles
}

func roundedDecimal(v float64) *decimal.Big {
	return chartval.ConvertFloatToDecimal(math.Round(v*100)/100, 64)
}
