// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"maycharts/chartval"
	"maycharts/pricescale"
	"maycharts/series"
	"maycharts/timescale"

	"golang.org/x/exp/slices"
)

const DefaultStretchFactor = 1000

type PriceScalePosition int

const (
	PriceScaleLeft PriceScalePosition = iota
	PriceScaleRight
	PriceScaleOverlay
)

// Pane is a horizontal section of the chart with its own price scales.
type Pane struct {
	model     *ChartModel
	timeScale *timescale.TimeScale

	leftPriceScale  *pricescale.PriceScale
	rightPriceScale *pricescale.PriceScale
	// Overlay scales exist while they have sources.
	overlaySourcesByScaleID map[string][]*series.Series

	dataSources          []*series.Series
	cachedOrderedSources []*series.Series

	width         float64
	height        float64
	stretchFactor float64
}

func newPane(model *ChartModel, timeScale *timescale.TimeScale) *Pane {
	p := &Pane{
		model:                   model,
		timeScale:               timeScale,
		overlaySourcesByScaleID: make(map[string][]*series.Series),
		stretchFactor:           DefaultStretchFactor,
	}
	p.leftPriceScale = p.createPriceScale(LeftPriceScaleID, model.options.LeftPriceScale)
	p.rightPriceScale = p.createPriceScale(RightPriceScaleID, model.options.RightPriceScale)
	return p
}

func (p *Pane) LeftPriceScale() *pricescale.PriceScale {
	return p.leftPriceScale
}

func (p *Pane) RightPriceScale() *pricescale.PriceScale {
	return p.rightPriceScale
}

func (p *Pane) StretchFactor() float64 {
	return p.stretchFactor
}

func (p *Pane) SetStretchFactor(factor float64) {
	p.stretchFactor = factor
}

func (p *Pane) Width() float64 {
	return p.width
}

func (p *Pane) Height() float64 {
	return p.height
}

func (p *Pane) SetWidth(width float64) {
	p.width = width
}

func (p *Pane) SetHeight(height float64) {
	p.height = height
	p.leftPriceScale.SetHeight(height)
	p.rightPriceScale.SetHeight(height)
	for _, source := range p.dataSources {
		if p.IsOverlay(source) {
			source.PriceScale().SetHeight(height)
		}
	}
}

func (p *Pane) applyScaleOptions(options Options) {
	p.leftPriceScale.ApplyOptions(options.LeftPriceScale)
	p.rightPriceScale.ApplyOptions(options.RightPriceScale)
	p.setFontSize(options.FontSize)
}

func (p *Pane) setFontSize(fontSize float64) {
	p.leftPriceScale.SetFontSize(fontSize)
	p.rightPriceScale.SetFontSize(fontSize)
	for _, source := range p.dataSources {
		if p.IsOverlay(source) {
			source.PriceScale().SetFontSize(fontSize)
		}
	}
}

func (p *Pane) DataSources() []*series.Series {
	return p.dataSources
}

// OrderedSources returns the sources sorted by z-order.
func (p *Pane) OrderedSources() []*series.Series {
	if p.cachedOrderedSources == nil {
		p.cachedOrderedSources = slices.Clone(p.dataSources)
		slices.SortStableFunc(p.cachedOrderedSources, func(a, b *series.Series) int {
			return a.ZOrder() - b.ZOrder()
		})
	}
	return p.cachedOrderedSources
}

func (p *Pane) HasSource(source *series.Series) bool {
	return slices.Contains(p.dataSources, source)
}

func (p *Pane) IsOverlay(source *series.Series) bool {
	priceScale := source.PriceScale()
	return priceScale == nil || (priceScale != p.leftPriceScale && priceScale != p.rightPriceScale)
}

// PriceScaleByID returns nil if there is no such scale in this pane.
func (p *Pane) PriceScaleByID(id string) *pricescale.PriceScale {
	switch id {
	case LeftPriceScaleID:
		return p.leftPriceScale
	case RightPriceScaleID:
		return p.rightPriceScale
	}
	if sources, ok := p.overlaySourcesByScaleID[id]; ok && len(sources) > 0 {
		return sources[0].PriceScale()
	}
	return nil
}

func (p *Pane) PriceScalePosition(priceScale *pricescale.PriceScale) PriceScalePosition {
	switch priceScale {
	case p.leftPriceScale:
		return PriceScaleLeft
	case p.rightPriceScale:
		return PriceScaleRight
	default:
		return PriceScaleOverlay
	}
}

func (p *Pane) zOrderMax() int {
	sources := p.OrderedSources()
	if len(sources) == 0 {
		return 0
	}
	return sources[len(sources)-1].ZOrder()
}

// AddDataSource attaches source to the price scale with the given id, creating overlay scales on demand.
// A nil zOrder places the source on top.
func (p *Pane) AddDataSource(source *series.Series, priceScaleID string, zOrder *int) {
	targetZOrder := p.zOrderMax() + 1
	if zOrder != nil {
		targetZOrder = *zOrder
	}
	priceScale := p.PriceScaleByID(priceScaleID)
	if priceScale == nil {
		priceScale = p.createPriceScale(priceScaleID, p.model.options.OverlayPriceScales)
	}
	p.dataSources = append(p.dataSources, source)
	if !isDefaultPriceScale(priceScaleID) {
		p.overlaySourcesByScaleID[priceScaleID] = append(p.overlaySourcesByScaleID[priceScaleID], source)
	}
	source.SetZOrder(targetZOrder)
	source.SetPriceScale(priceScale)
	priceScale.AddDataSource(source)
	p.RecalculatePriceScale(priceScale)
	p.cachedOrderedSources = nil
}

// RemoveDataSource panics if source is not part of this pane.
func (p *Pane) RemoveDataSource(source *series.Series) {
	index := slices.Index(p.dataSources, source)
	if index == -1 {
		panic("remove data source: invalid data source")
	}
	p.dataSources = slices.Delete(p.dataSources, index, index+1)
	priceScale := source.PriceScale()
	if priceScale != nil {
		id := priceScale.ID()
		if overlaySources, ok := p.overlaySourcesByScaleID[id]; ok {
			if overlayIndex := slices.Index(overlaySources, source); overlayIndex != -1 {
				overlaySources = slices.Delete(overlaySources, overlayIndex, overlayIndex+1)
				if len(overlaySources) == 0 {
					delete(p.overlaySourcesByScaleID, id)
				} else {
					p.overlaySourcesByScaleID[id] = overlaySources
				}
			}
		}
		if priceScale.HasSource(source) {
			priceScale.RemoveDataSource(source)
		}
		priceScale.InvalidateSourcesCache()
		p.RecalculatePriceScale(priceScale)
	}
	p.cachedOrderedSources = nil
}

// DefaultPriceScale is the scale used for the crosshair price.
func (p *Pane) DefaultPriceScale() *pricescale.PriceScale {
	switch {
	case p.rightPriceScale.Options().Visible && len(p.rightPriceScale.DataSources()) != 0:
		return p.rightPriceScale
	case p.leftPriceScale.Options().Visible && len(p.leftPriceScale.DataSources()) != 0:
		return p.leftPriceScale
	case len(p.dataSources) != 0 && p.dataSources[0].PriceScale() != nil:
		return p.dataSources[0].PriceScale()
	}
	return p.rightPriceScale
}

// DefaultVisiblePriceScale returns nil if neither left nor right scale are visible.
func (p *Pane) DefaultVisiblePriceScale() *pricescale.PriceScale {
	if p.rightPriceScale.Options().Visible {
		return p.rightPriceScale
	}
	if p.leftPriceScale.Options().Visible {
		return p.leftPriceScale
	}
	return nil
}

func (p *Pane) StartScalePrice(priceScale *pricescale.PriceScale, x float64) {
	priceScale.StartScale(x)
}

func (p *Pane) ScalePriceTo(priceScale *pricescale.PriceScale, x float64) {
	priceScale.ScaleTo(x)
}

func (p *Pane) EndScalePrice(priceScale *pricescale.PriceScale) {
	priceScale.EndScale()
}

func (p *Pane) StartScrollPrice(priceScale *pricescale.PriceScale, x float64) {
	priceScale.StartScroll(x)
}

func (p *Pane) ScrollPriceTo(priceScale *pricescale.PriceScale, x float64) {
	priceScale.ScrollTo(x)
}

func (p *Pane) EndScrollPrice(priceScale *pricescale.PriceScale) {
	priceScale.EndScroll()
}

// ResetPriceScale turns autoscale back on.
func (p *Pane) ResetPriceScale(priceScale *pricescale.PriceScale) {
	autoScale := true
	priceScale.SetMode(pricescale.StateUpdate{AutoScale: &autoScale})
	if visibleBars := p.timeScale.VisibleStrictRange(); visibleBars != nil {
		priceScale.RecalculatePriceRange(*visibleBars)
	}
}

// RecalculatePriceScale autoscales priceScale if autoscale is enabled.
func (p *Pane) RecalculatePriceScale(priceScale *pricescale.PriceScale) {
	if priceScale == nil || !priceScale.IsAutoScale() {
		return
	}
	p.recalculatePriceScaleImpl(priceScale)
}

// MomentaryAutoScale autoscales the default scales once, even if autoscale is disabled.
func (p *Pane) MomentaryAutoScale() {
	p.recalculatePriceScaleImpl(p.leftPriceScale)
	p.recalculatePriceScaleImpl(p.rightPriceScale)
}

func (p *Pane) Recalculate() {
	p.RecalculatePriceScale(p.leftPriceScale)
	p.RecalculatePriceScale(p.rightPriceScale)
	for _, source := range p.dataSources {
		if p.IsOverlay(source) {
			p.RecalculatePriceScale(source.PriceScale())
		}
	}
	p.model.LightUpdate()
}

func (p *Pane) recalculatePriceScaleImpl(priceScale *pricescale.PriceScale) {
	if len(priceScale.DataSources()) == 0 || p.timeScale.IsEmpty() {
		return
	}
	if visibleBars := p.timeScale.VisibleStrictRange(); visibleBars != nil {
		priceScale.RecalculatePriceRange(chartval.Range[int]{Left: visibleBars.Left, Right: visibleBars.Right})
	}
}

func (p *Pane) createPriceScale(id string, options pricescale.Options) *pricescale.PriceScale {
	priceScale := pricescale.NewPriceScale(id, options)
	priceScale.SetHeight(p.height)
	priceScale.SetFontSize(p.model.FontSize())
	return priceScale
}
