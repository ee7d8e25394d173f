// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartapi

import (
	"errors"
	"fmt"

	"github.com/ericlagergren/decimal"
)

var (
	ErrUnorderedData = errors.New("data must be in ascending time order")
	ErrInvalidTime   = errors.New("invalid time value")
)

type SeriesType int

const (
	SeriesTypeCandlestick SeriesType = iota
	SeriesTypeBar
	SeriesTypeLine
	SeriesTypeCustom
)

func (t SeriesType) String() string {
	switch t {
	case SeriesTypeCandlestick:
		return "Candlestick"
	case SeriesTypeBar:
		return "Bar"
	case SeriesTypeLine:
		return "Line"
	case SeriesTypeCustom:
		return "Custom"
	default:
		panic("unsupported series type")
	}
}

// IsBarLike returns true for series types with open, high, low and close values.
func (t SeriesType) IsBarLike() bool {
	return t == SeriesTypeCandlestick || t == SeriesTypeBar
}

// BusinessDay is a calendar day without time of day.
type BusinessDay struct {
	Year  int
	Month int
	Day   int
}

// DataItem is one row of caller supplied series data.
// Supported time values depend on the horizontal scale behavior, e.g. int64 UTC seconds,
// time.Time, BusinessDay or "2006-01-02" strings.
type DataItem interface {
	GetTime() any
	IsWhitespace() bool
}

// WhitespaceData occupies a time slot without a value.
type WhitespaceData struct {
	Time any
}

func (d WhitespaceData) GetTime() any {
	return d.Time
}

func (d WhitespaceData) IsWhitespace() bool {
	return true
}

// CandleData is used by candlestick and bar series.
// Missing high or low prices are derived from open and close, a missing open price equals close.
type CandleData struct {
	Time        any
	OpenPrice   *decimal.Big
	HighPrice   *decimal.Big
	LowPrice    *decimal.Big
	ClosePrice  *decimal.Big
	Color       string
	BorderColor string
	WickColor   string
}

func (d CandleData) GetTime() any {
	return d.Time
}

func (d CandleData) IsWhitespace() bool {
	return d.ClosePrice == nil
}

type LineData struct {
	Time  any
	Value *decimal.Big
	Color string
}

func (d LineData) GetTime() any {
	return d.Time
}

func (d LineData) IsWhitespace() bool {
	return d.Value == nil
}

// CustomData carries arbitrary values, the last one being the current value.
type CustomData struct {
	Time   any
	Values []float64
	Color  string
}

func (d CustomData) GetTime() any {
	return d.Time
}

func (d CustomData) IsWhitespace() bool {
	return len(d.Values) == 0
}

// CheckItemsAscending returns ErrUnorderedData unless the keys of items are strictly ascending.
func CheckItemsAscending[T any](items []T, key func(T) int64) error {
	for i := 1; i < len(items); i++ {
		prev, current := key(items[i-1]), key(items[i])
		if current <= prev {
			return fmt.Errorf("%w: index %d, key %d after %d", ErrUnorderedData, i, current, prev)
		}
	}
	return nil
}
