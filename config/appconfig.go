// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"log"
	"maycharts/chartapi/horzscale"
	"maycharts/chartmodel"
	"maycharts/pricescale"

	"github.com/barkimedes/go-deepcopy"
)

type AppConfig struct {
	Chart      chartmodel.Options            `yaml:"chart"`
	Time       horzscale.TimeBehaviorOptions `yaml:"time"`
	Data       DataConfig                    `yaml:"data"`
	Indicators []IndicatorConfig             `yaml:"indicators"`
}

func NewAppConfig() AppConfig {
	c := AppConfig{
		Chart:      chartmodel.DefaultOptions(),
		Data:       NewDataConfig(),
		Indicators: NewIndicatorConfig(),
	}
	c.RestoreDefaults()
	return c
}

func (a *AppConfig) deepCopy() AppConfig {
	c, err := deepcopy.Anything(a)
	if err != nil {
		panic(err)
	}
	return *c.(*AppConfig)
}

// Sanitize replaces invalid values by defaults.
func (a *AppConfig) Sanitize() {
	sanitizeChartOptions(&a.Chart)
	a.Data.sanitize()
	valid := a.Indicators[:0]
	for _, ind := range a.Indicators {
		if ind.sanitize() {
			valid = append(valid, ind)
		}
	}
	a.Indicators = valid
	a.RestoreDefaults()
}

func sanitizeChartOptions(o *chartmodel.Options) {
	def := chartmodel.DefaultOptions()
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.TimeScale.BarSpacing <= 0 {
		o.TimeScale.BarSpacing = def.TimeScale.BarSpacing
	}
	if o.TimeScale.MinBarSpacing <= 0 {
		o.TimeScale.MinBarSpacing = def.TimeScale.MinBarSpacing
	}
	if o.TimeScale.MaxBarSpacing < 0 {
		o.TimeScale.MaxBarSpacing = def.TimeScale.MaxBarSpacing
	}
	sanitizePriceScale(&o.LeftPriceScale, def.LeftPriceScale)
	sanitizePriceScale(&o.RightPriceScale, def.RightPriceScale)
	sanitizePriceScale(&o.OverlayPriceScales, def.OverlayPriceScales)
}

func sanitizePriceScale(o *pricescale.Options, def pricescale.Options) {
	if !o.ScaleMargins.Valid() {
		log.Printf("Invalid scale margins %v were replaced by %v.", o.ScaleMargins, def.ScaleMargins)
		o.ScaleMargins = def.ScaleMargins
	}
}

// RemoveDefaults clears values which are not stored in the configuration file,
// in order to avoid having to patch them.
func (a *AppConfig) RemoveDefaults() {
	for i := range a.Indicators {
		a.Indicators[i].removeDefaults()
	}
}

// RestoreDefaults restores values which are not stored in the configuration file.
func (a *AppConfig) RestoreDefaults() {
	for i := range a.Indicators {
		a.Indicators[i].restoreDefaults()
	}
}
