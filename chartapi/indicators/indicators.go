// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package indicators

import (
	"errors"
	"fmt"
	"maycharts/chartapi"
	"maycharts/chartapi/indicators/bollinger"
	"maycharts/chartapi/indicators/sma"
	"maycharts/chartapi/indicators/stochastics"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const DefaultID = sma.ID

var ErrUnknownIndicator = errors.New("unknown indicator")

var IndicatorRegistry = map[chartapi.IndicatorID]func() chartapi.Indicator{
	bollinger.ID:   bollinger.NewIndicator,
	sma.ID:         sma.NewIndicator,
	stochastics.ID: stochastics.NewIndicator,
}

func Create(id chartapi.IndicatorID, properties map[string]string) (chartapi.Indicator, error) {
	d, ok := IndicatorRegistry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
	}
	ind := d()
	ind.SetProperties(properties)
	return ind, nil
}

func DefaultProperties(id chartapi.IndicatorID) (map[string]string, error) {
	d, ok := IndicatorRegistry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
	}
	return d().Properties(), nil
}

// List returns all indicator ids, sorted.
func List() []chartapi.IndicatorID {
	l := maps.Keys(IndicatorRegistry)
	slices.Sort(l)
	return l
}
