// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unicode minus sign, it has the same width as the plus sign.
const minusSign = "−"

type Formatter interface {
	Format(price float64) string
}

// PriceFormatter formats prices in steps of minMove/priceScale.
// A priceScale of 100 with minMove 1 results in two digits after the decimal point.
type PriceFormatter struct {
	priceScale       int
	minMove          float64
	fractionalLength int
}

func NewPriceFormatter(priceScale int, minMove float64) PriceFormatter {
	if priceScale < 0 {
		panic("invalid price formatter base")
	}
	if minMove <= 0 || math.IsNaN(minMove) {
		minMove = 1
	}
	f := PriceFormatter{priceScale: priceScale, minMove: minMove}
	// Only the main fractional part is considered for the length.
	for base := float64(priceScale); base > 1; base /= 10 {
		f.fractionalLength++
	}
	return f
}

// NewPriceFormatterForPrecision creates a formatter for a precision (digits after the decimal point)
// and an absolute minimum price movement, e.g. 2 and 0.01.
func NewPriceFormatterForPrecision(precision int, minMove float64) PriceFormatter {
	priceScale := int(math.Pow10(precision))
	scaledMinMove := math.Round(minMove*float64(priceScale)*1e9) / 1e9
	return NewPriceFormatter(priceScale, scaledMinMove)
}

func (f PriceFormatter) Format(price float64) string {
	if math.IsNaN(price) {
		return "n/a"
	}
	sign := ""
	if price < 0 {
		sign = minusSign
		price = -price
	}
	return sign + f.formatAsDecimal(price)
}

func (f PriceFormatter) formatAsDecimal(price float64) string {
	base := float64(f.priceScale) / f.minMove
	intPart := math.Floor(price)
	if base <= 1 {
		// Round int part to min move, the fractional part is always zero.
		intPart = math.Round(intPart*base) / base
		if f.fractionalLength > 0 {
			return strconv.FormatFloat(intPart, 'f', 0, 64) + "." + strings.Repeat("0", f.fractionalLength)
		}
		return strconv.FormatFloat(intPart, 'f', 0, 64)
	}
	fracPart := math.Round(RoundHalfAway(price*base) - intPart*base)
	if fracPart >= base {
		fracPart -= base
		intPart++
	}
	fracValue := int64(math.Round(fracPart * f.minMove))
	return strconv.FormatFloat(intPart, 'f', 0, 64) + "." + fmt.Sprintf("%0*d", f.fractionalLength, fracValue)
}

type PercentageFormatter struct {
	PriceFormatter
}

func NewPercentageFormatter() PercentageFormatter {
	return PercentageFormatter{PriceFormatter: NewPriceFormatter(100, 1)}
}

func (f PercentageFormatter) Format(price float64) string {
	return f.PriceFormatter.Format(price) + "%"
}

// VolumeFormatter uses K, M and B suffixes for large values.
type VolumeFormatter struct {
	precision int
}

func NewVolumeFormatter(precision int) VolumeFormatter {
	return VolumeFormatter{precision: precision}
}

func (f VolumeFormatter) Format(vol float64) string {
	sign := ""
	if vol < 0 {
		sign = "-"
		vol = -vol
	}
	switch {
	case vol < 995:
		return sign + f.formatNumber(vol)
	case vol < 999995:
		return sign + f.formatNumber(vol/1000) + "K"
	case vol < 999999995:
		vol = 1000 * math.Round(vol/1000)
		return sign + f.formatNumber(vol/1000000) + "M"
	default:
		vol = 1000000 * math.Round(vol/1000000)
		return sign + f.formatNumber(vol/1000000000) + "B"
	}
}

func (f VolumeFormatter) formatNumber(value float64) string {
	coefficient := math.Pow10(f.precision)
	value = math.Round(value*coefficient) / coefficient
	text := strconv.FormatFloat(value, 'f', f.precision, 64)
	if strings.Contains(text, ".") {
		text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	}
	return text
}
