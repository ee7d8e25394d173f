// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calc

import (
	"maycharts/chartapi"
	"maycharts/chartval"

	"github.com/ericlagergren/decimal"
)

// Candles stores the prices of candles in separate slices. Whitespace candles are skipped.
type Candles struct {
	Times  []any
	Open   []*decimal.Big
	High   []*decimal.Big
	Low    []*decimal.Big
	Close  []*decimal.Big
	Closes []float64
	Highs  []float64
	Lows   []float64
}

func (c *Candles) Len() int {
	return len(c.Times)
}

// SplitCandles derives missing open, high and low prices the same way candle rows do.
func SplitCandles(data []chartapi.CandleData) Candles {
	var c Candles
	for _, d := range data {
		if d.IsWhitespace() {
			continue
		}
		open := d.OpenPrice
		if open == nil {
			open = d.ClosePrice
		}
		high, low := d.HighPrice, d.LowPrice
		if high == nil {
			high = Max(open, d.ClosePrice)
		}
		if low == nil {
			low = Min(open, d.ClosePrice)
		}
		c.Times = append(c.Times, d.Time)
		c.Open = append(c.Open, open)
		c.High = append(c.High, high)
		c.Low = append(c.Low, low)
		c.Close = append(c.Close, d.ClosePrice)
		c.Closes = append(c.Closes, chartval.ConvertDecimalToFloat(d.ClosePrice))
		c.Highs = append(c.Highs, chartval.ConvertDecimalToFloat(high))
		c.Lows = append(c.Lows, chartval.ConvertDecimalToFloat(low))
	}
	return c
}

func Min(a, b *decimal.Big) *decimal.Big {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a, b *decimal.Big) *decimal.Big {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func Mean(out *decimal.Big, val []*decimal.Big) *decimal.Big {
	out.SetUint64(0)
	if len(val) == 0 {
		return out
	}
	for i := range val {
		out.Add(out, val[i])
	}
	out.Quo(out, new(decimal.Big).SetUint64(uint64(len(val))))
	return out
}

// StdDev is the sample standard deviation, zero for less than two values.
func StdDev(out *decimal.Big, val []*decimal.Big) *decimal.Big {
	out.SetUint64(0)
	if len(val) < 2 {
		return out
	}
	m := Mean(new(decimal.Big), val)
	for i := 0; i < len(val); i++ {
		v := new(decimal.Big).Copy(val[i])
		v.Sub(v, m)
		v.Mul(v, v)
		out.Add(out, v)
	}
	out.Quo(out, new(decimal.Big).SetUint64(uint64(len(val)-1)))
	return out.Context.Sqrt(out, out)
}
