// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"fmt"
	"maycharts/pricescale"
	"maycharts/timescale"
)

const (
	LeftPriceScaleID  = "left"
	RightPriceScaleID = "right"
)

func isDefaultPriceScale(id string) bool {
	return id == LeftPriceScaleID || id == RightPriceScaleID
}

type CrosshairMode int

const (
	CrosshairNormal CrosshairMode = iota
	CrosshairMagnet
)

var crosshairModeNames = []string{"normal", "magnet"}

func (m CrosshairMode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(crosshairModeNames) {
		return nil, fmt.Errorf("invalid crosshair mode %d", int(m))
	}
	return []byte(crosshairModeNames[m]), nil
}

func (m *CrosshairMode) UnmarshalText(text []byte) error {
	for i, name := range crosshairModeNames {
		if name == string(text) {
			*m = CrosshairMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown crosshair mode %q", string(text))
}

type CrosshairOptions struct {
	Mode CrosshairMode `yaml:"mode"`
}

type Options struct {
	TimeScale          timescale.Options  `yaml:"timeScale"`
	LeftPriceScale     pricescale.Options `yaml:"leftPriceScale"`
	RightPriceScale    pricescale.Options `yaml:"rightPriceScale"`
	OverlayPriceScales pricescale.Options `yaml:"overlayPriceScales"`
	Crosshair          CrosshairOptions   `yaml:"crosshair"`
	HandleScroll       bool               `yaml:"handleScroll"`
	HandleScale        bool               `yaml:"handleScale"`
	FontSize           float64            `yaml:"fontSize"`
}

func DefaultOptions() Options {
	left := pricescale.DefaultOptions()
	left.Visible = false
	overlay := pricescale.DefaultOptions()
	overlay.ScaleMargins = pricescale.ScaleMargins{Top: 0.8, Bottom: 0}
	return Options{
		TimeScale:          timescale.DefaultOptions(),
		LeftPriceScale:     left,
		RightPriceScale:    pricescale.DefaultOptions(),
		OverlayPriceScales: overlay,
		Crosshair:          CrosshairOptions{Mode: CrosshairMagnet},
		HandleScroll:       true,
		HandleScale:        true,
		FontSize:           pricescale.DefaultFontSize,
	}
}
