// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"math"
	"maycharts/plotlist"
)

// CrosshairMoved is fired when the crosshair position changes. Cleared is set if the crosshair was hidden.
type CrosshairMoved struct {
	Index   int
	Price   float64
	X       float64
	Y       float64
	Cleared bool
}

// Crosshair stores the position of the cursor in chart coordinates.
type Crosshair struct {
	model   *ChartModel
	options CrosshairOptions

	pane    *Pane
	index   int
	price   float64
	x       float64
	y       float64
	originX float64
	originY float64
	visible bool
}

func newCrosshair(model *ChartModel, options CrosshairOptions) *Crosshair {
	return &Crosshair{
		model:   model,
		options: options,
		price:   math.NaN(),
		x:       math.NaN(),
		y:       math.NaN(),
		originX: math.NaN(),
		originY: math.NaN(),
	}
}

func (c *Crosshair) Options() CrosshairOptions {
	return c.options
}

func (c *Crosshair) applyOptions(options CrosshairOptions) {
	c.options = options
}

func (c *Crosshair) Pane() *Pane {
	return c.pane
}

func (c *Crosshair) Visible() bool {
	return c.visible
}

// AppliedIndex is the time index the crosshair is snapped to.
func (c *Crosshair) AppliedIndex() int {
	return c.index
}

func (c *Crosshair) AppliedPrice() float64 {
	return c.price
}

// AppliedX and AppliedY are the coordinates of the crosshair lines.
func (c *Crosshair) AppliedX() float64 {
	return c.x
}

func (c *Crosshair) AppliedY() float64 {
	return c.y
}

func (c *Crosshair) OriginCoordX() float64 {
	return c.originX
}

func (c *Crosshair) OriginCoordY() float64 {
	return c.originY
}

func (c *Crosshair) saveOriginCoord(x, y float64) {
	c.originX = x
	c.originY = y
}

func (c *Crosshair) setPosition(index int, price float64, pane *Pane) {
	c.visible = true
	c.index = index
	c.price = price
	c.pane = pane
	c.x = c.model.timeScale.IndexToCoordinate(index)
	c.y = math.NaN()
	priceScale := pane.DefaultPriceScale()
	if firstValue, ok := priceScale.FirstValue(); ok && !priceScale.IsEmpty() {
		c.y = priceScale.PriceToCoordinate(price, firstValue)
	}
}

func (c *Crosshair) clearPosition() {
	c.visible = false
	c.index = c.model.timeScale.BaseIndex()
	c.price = math.NaN()
	c.x = math.NaN()
	c.y = math.NaN()
	c.pane = nil
	c.saveOriginCoord(math.NaN(), math.NaN())
}

// alignPrice snaps the price to the nearest bar value at index in magnet mode.
func (c *Crosshair) alignPrice(price float64, index int, pane *Pane) float64 {
	if c.options.Mode != CrosshairMagnet {
		return price
	}
	defaultPriceScale := pane.DefaultPriceScale()
	firstValue, ok := defaultPriceScale.FirstValue()
	if !ok {
		return price
	}
	y := defaultPriceScale.PriceToCoordinate(price, firstValue)
	result := price
	minDistance := math.Inf(1)
	for _, s := range pane.DataSources() {
		if !s.Visible() || pane.IsOverlay(s) {
			continue
		}
		priceScale := s.PriceScale()
		if priceScale.IsEmpty() {
			continue
		}
		bar := s.Bars().ValueAt(index)
		if bar == nil {
			continue
		}
		seriesFirst, ok := s.FirstValue()
		if !ok {
			continue
		}
		candidates := bar.Value[plotlist.Close : plotlist.Close+1]
		if s.SeriesType().IsBarLike() {
			candidates = bar.Value[:]
		}
		for _, candidate := range candidates {
			distance := math.Abs(y - priceScale.PriceToCoordinate(candidate, seriesFirst.Value))
			if distance < minDistance {
				minDistance = distance
				result = candidate
			}
		}
	}
	return result
}
