// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import "maycharts/chartval"

// FirstValueInfo is the first visible value of a source and its time index.
type FirstValueInfo struct {
	Value float64
	Index int
}

// Margins are pixel margins requested by a source, e.g. for labels.
type Margins struct {
	Above float64
	Below float64
}

type AutoscaleInfo struct {
	// Raw price range, nil if the source has no values in the requested range.
	PriceRange *PriceRange
	Margins    *Margins
}

// DataSource is anything which can be shown on a price scale.
type DataSource interface {
	FirstValue() (FirstValueInfo, bool)
	AutoscaleInfo(startIndex, endIndex int) *AutoscaleInfo
	Visible() bool
	MinMove() float64
	Formatter() chartval.Formatter
	ZOrder() int
}
