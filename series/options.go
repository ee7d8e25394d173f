// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package series

import (
	"fmt"
	"maycharts/chartapi"
	"maycharts/pricescale"
)

type PriceFormatType int

const (
	PriceFormatPrice PriceFormatType = iota
	PriceFormatPercent
	PriceFormatVolume
)

var priceFormatNames = []string{"price", "percent", "volume"}

func (t PriceFormatType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(priceFormatNames) {
		return nil, fmt.Errorf("invalid price format type %d", int(t))
	}
	return []byte(priceFormatNames[t]), nil
}

func (t *PriceFormatType) UnmarshalText(text []byte) error {
	for i, name := range priceFormatNames {
		if name == string(text) {
			*t = PriceFormatType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown price format type %q", string(text))
}

type PriceFormat struct {
	Type PriceFormatType `yaml:"type"`
	// Digits after the decimal point.
	Precision int `yaml:"precision"`
	// Absolute minimum movement of prices, e.g. 0.01.
	MinMove float64 `yaml:"minMove"`
}

// AutoscaleInfoProvider can replace the autoscale info computed by the series.
type AutoscaleInfoProvider func(baseImplementation func() *pricescale.AutoscaleInfo) *pricescale.AutoscaleInfo

// CustomValuesBuilder returns the values of a custom item, the last value being the current one.
type CustomValuesBuilder func(item chartapi.CustomData) []float64

type Options struct {
	Title        string      `yaml:"title"`
	Visible      bool        `yaml:"visible"`
	PriceScaleID string      `yaml:"priceScaleId"`
	PriceFormat  PriceFormat `yaml:"priceFormat"`
	Color        string      `yaml:"color,omitempty"`
	UpColor      string      `yaml:"upColor,omitempty"`
	DownColor    string      `yaml:"downColor,omitempty"`

	AutoscaleInfoProvider AutoscaleInfoProvider `yaml:"-"`
	CustomValues          CustomValuesBuilder   `yaml:"-"`
}

func DefaultOptions(seriesType chartapi.SeriesType) Options {
	o := Options{
		Visible:      true,
		PriceScaleID: "right",
		PriceFormat:  PriceFormat{Type: PriceFormatPrice, Precision: 2, MinMove: 0.01},
	}
	switch seriesType {
	case chartapi.SeriesTypeCandlestick, chartapi.SeriesTypeBar:
		o.UpColor = "#26a69a"
		o.DownColor = "#ef5350"
	case chartapi.SeriesTypeLine, chartapi.SeriesTypeCustom:
		o.Color = "#2196f3"
	}
	return o
}
