// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"fmt"
	"time"
)

const resolutionOneDay = "1d"

// DataConfig selects the bars shown by the chart.
type DataConfig struct {
	Symbol     string `yaml:"symbol"`
	Resolution string `yaml:"resolution"`
	// Number of whitespace slots for upcoming trading days or intervals.
	FutureWhitespace int `yaml:"futureWhitespace"`
	CacheMaxAgeHours int `yaml:"cacheMaxAgeHours"`
}

func NewDataConfig() DataConfig {
	return DataConfig{
		Symbol:           "SPY",
		Resolution:       resolutionOneDay,
		FutureWhitespace: 10,
		CacheMaxAgeHours: 12,
	}
}

func (d *DataConfig) sanitize() {
	def := NewDataConfig()
	if d.Symbol == "" {
		d.Symbol = def.Symbol
	}
	if _, err := d.ResolutionDuration(); err != nil {
		d.Resolution = def.Resolution
	}
	if d.FutureWhitespace < 0 {
		d.FutureWhitespace = 0
	}
	if d.CacheMaxAgeHours <= 0 {
		d.CacheMaxAgeHours = def.CacheMaxAgeHours
	}
}

// IsDaily is true for one bar per trading day.
func (d DataConfig) IsDaily() bool {
	return d.Resolution == resolutionOneDay
}

// ResolutionDuration parses intraday resolutions like "30m". Daily bars return 24 hours.
func (d DataConfig) ResolutionDuration() (time.Duration, error) {
	if d.IsDaily() {
		return 24 * time.Hour, nil
	}
	duration, err := time.ParseDuration(d.Resolution)
	if err != nil {
		return 0, fmt.Errorf("invalid resolution %q: %w", d.Resolution, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid resolution %q: must be positive", d.Resolution)
	}
	return duration, nil
}

func (d DataConfig) CacheMaxAge() time.Duration {
	return time.Duration(d.CacheMaxAgeHours) * time.Hour
}
