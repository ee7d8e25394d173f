// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartapi

type IndicatorID string

type IndicatorPlacement int

const (
	// PlacementOverlay draws the indicator on the price scale of its candles.
	PlacementOverlay IndicatorPlacement = iota
	// PlacementSeparate uses a price scale of its own.
	PlacementSeparate
)

// IndicatorLine is one line of an indicator. Data has one item per non-whitespace input candle,
// candles without a result are whitespace.
type IndicatorLine struct {
	Name string
	Data []LineData
}

// Indicator derives line series from candles.
type Indicator interface {
	ID() IndicatorID
	Properties() map[string]string
	// SetProperties ignores unknown keys and invalid values.
	SetProperties(properties map[string]string)
	Placement() IndicatorPlacement
	Calculate(candles []CandleData) []IndicatorLine
}

// PriceScaleID returns the price scale id to use for the lines of ind. Overlays use candleScaleID.
func PriceScaleID(ind Indicator, candleScaleID string) string {
	if ind.Placement() == PlacementOverlay {
		return candleScaleID
	}
	return string(ind.ID())
}
