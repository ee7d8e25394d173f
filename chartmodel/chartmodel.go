// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"errors"
	"fmt"
	"log"
	"math"
	"maycharts/chartapi"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"maycharts/datalayer"
	"maycharts/pricescale"
	"maycharts/series"
	"maycharts/timescale"

	"golang.org/x/exp/slices"
)

var ErrUnknownPriceScale = errors.New("unknown price scale id")

// InvalidateHandler receives every mask produced by the model.
type InvalidateHandler func(mask *InvalidateMask)

// ChartModel owns panes, series and the time scale. All changes go through it,
// and each change results in an InvalidateMask passed to the handler.
type ChartModel struct {
	invalidateHandler InvalidateHandler
	options           Options
	behavior          horzscale.Behavior

	timeScale *timescale.TimeScale
	dataLayer *datalayer.DataLayer
	panes     []*Pane
	series    []*series.Series
	crosshair *Crosshair
	width     float64

	crosshairMoved chartval.Delegate[CrosshairMoved]
}

func NewChartModel(invalidateHandler InvalidateHandler, options Options, behavior horzscale.Behavior) *ChartModel {
	m := &ChartModel{
		invalidateHandler: invalidateHandler,
		options:           options,
		behavior:          behavior,
		dataLayer:         datalayer.NewDataLayer(behavior),
	}
	m.timeScale = timescale.NewTimeScale(m, options.TimeScale, behavior)
	m.crosshair = newCrosshair(m, options.Crosshair)
	m.CreatePane().SetStretchFactor(DefaultStretchFactor * 2)
	return m
}

func (m *ChartModel) Options() Options {
	return m.options
}

func (m *ChartModel) TimeScale() *timescale.TimeScale {
	return m.timeScale
}

func (m *ChartModel) Panes() []*Pane {
	return m.panes
}

func (m *ChartModel) Series() []*series.Series {
	return m.series
}

func (m *ChartModel) Crosshair() *Crosshair {
	return m.crosshair
}

func (m *ChartModel) OnCrosshairMoved() *chartval.Delegate[CrosshairMoved] {
	return &m.crosshairMoved
}

func (m *ChartModel) Width() float64 {
	return m.width
}

func (m *ChartModel) FontSize() float64 {
	return m.options.FontSize
}

func (m *ChartModel) ScrollingAndScalingDisabled() bool {
	return !m.options.HandleScroll && !m.options.HandleScale
}

func (m *ChartModel) FullUpdate() {
	m.invalidate(Full())
}

func (m *ChartModel) LightUpdate() {
	m.invalidate(Light())
}

func (m *ChartModel) CursorUpdate() {
	m.invalidate(NewInvalidateMask(InvalidationCursor))
}

// UpdateSource invalidates the pane of source.
func (m *ChartModel) UpdateSource(source *series.Series) {
	m.invalidate(m.paneInvalidationMask(m.PaneForSource(source), InvalidationLight))
}

// ApplyOptions replaces all options.
func (m *ChartModel) ApplyOptions(options Options) {
	m.options = options
	for _, pane := range m.panes {
		pane.applyScaleOptions(options)
	}
	m.crosshair.applyOptions(options.Crosshair)
	m.timeScale.ApplyOptions(options.TimeScale)
	m.FullUpdate()
}

// ApplyPriceScaleOptions changes the options of the left, right or an overlay price scale.
func (m *ChartModel) ApplyPriceScaleOptions(priceScaleID string, options pricescale.Options) error {
	switch priceScaleID {
	case LeftPriceScaleID:
		newOptions := m.options
		newOptions.LeftPriceScale = options
		m.ApplyOptions(newOptions)
		return nil
	case RightPriceScaleID:
		newOptions := m.options
		newOptions.RightPriceScale = options
		m.ApplyOptions(newOptions)
		return nil
	}
	_, priceScale, ok := m.FindPriceScale(priceScaleID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPriceScale, priceScaleID)
	}
	priceScale.ApplyOptions(options)
	m.FullUpdate()
	return nil
}

func (m *ChartModel) FindPriceScale(priceScaleID string) (*Pane, *pricescale.PriceScale, bool) {
	for _, pane := range m.panes {
		if priceScale := pane.PriceScaleByID(priceScaleID); priceScale != nil {
			return pane, priceScale, true
		}
	}
	return nil, nil, false
}

func (m *ChartModel) SetWidth(width float64) {
	m.width = width
	m.timeScale.SetWidth(width)
	for _, pane := range m.panes {
		pane.SetWidth(width)
	}
	m.RecalculateAllPanes()
}

func (m *ChartModel) SetPaneHeight(pane *Pane, height float64) {
	pane.SetHeight(height)
	m.RecalculatePane(pane)
}

// CreatePane appends a pane and schedules its autoscale.
func (m *ChartModel) CreatePane() *Pane {
	pane := newPane(m, m.timeScale)
	pane.SetWidth(m.width)
	m.panes = append(m.panes, pane)
	mask := Full()
	mask.InvalidatePane(len(m.panes)-1, PaneInvalidation{Level: InvalidationNone, AutoScale: true})
	m.invalidate(mask)
	return pane
}

// RemovePane removes a pane and its series. The last pane cannot be removed.
func (m *ChartModel) RemovePane(index int) {
	if index < 0 || index >= len(m.panes) || len(m.panes) == 1 {
		return
	}
	pane := m.panes[index]
	for _, s := range slices.Clone(pane.DataSources()) {
		m.RemoveSeries(s)
	}
	m.panes = slices.Delete(m.panes, index, index+1)
	m.FullUpdate()
}

func (m *ChartModel) PaneIndex(pane *Pane) int {
	return slices.Index(m.panes, pane)
}

func (m *ChartModel) StartScalePrice(pane *Pane, priceScale *pricescale.PriceScale, x float64) {
	if !m.options.HandleScale {
		return
	}
	pane.StartScalePrice(priceScale, x)
}

func (m *ChartModel) ScalePriceTo(pane *Pane, priceScale *pricescale.PriceScale, x float64) {
	pane.ScalePriceTo(priceScale, x)
	m.UpdateCrosshair()
	m.invalidate(m.paneInvalidationMask(pane, InvalidationLight))
}

func (m *ChartModel) EndScalePrice(pane *Pane, priceScale *pricescale.PriceScale) {
	pane.EndScalePrice(priceScale)
	m.invalidate(m.paneInvalidationMask(pane, InvalidationLight))
}

func (m *ChartModel) StartScrollPrice(pane *Pane, priceScale *pricescale.PriceScale, x float64) {
	if priceScale.IsAutoScale() || !m.options.HandleScroll {
		return
	}
	pane.StartScrollPrice(priceScale, x)
}

func (m *ChartModel) ScrollPriceTo(pane *Pane, priceScale *pricescale.PriceScale, x float64) {
	if priceScale.IsAutoScale() {
		return
	}
	pane.ScrollPriceTo(priceScale, x)
	m.UpdateCrosshair()
	m.invalidate(m.paneInvalidationMask(pane, InvalidationLight))
}

func (m *ChartModel) EndScrollPrice(pane *Pane, priceScale *pricescale.PriceScale) {
	if priceScale.IsAutoScale() {
		return
	}
	pane.EndScrollPrice(priceScale)
	m.invalidate(m.paneInvalidationMask(pane, InvalidationLight))
}

func (m *ChartModel) ResetPriceScale(pane *Pane, priceScale *pricescale.PriceScale) {
	pane.ResetPriceScale(priceScale)
	m.invalidate(m.paneInvalidationMask(pane, InvalidationLight))
}

func (m *ChartModel) StartScaleTime(x float64) {
	if !m.options.HandleScale {
		return
	}
	m.timeScale.StartScale(x)
}

func (m *ChartModel) ScaleTimeTo(x float64) {
	if !m.options.HandleScale {
		return
	}
	m.timeScale.ScaleTo(x)
	m.RecalculateAllPanes()
}

func (m *ChartModel) EndScaleTime() {
	if !m.options.HandleScale {
		return
	}
	m.timeScale.EndScale()
	m.LightUpdate()
}

func (m *ChartModel) StartScrollTime(x float64) {
	if !m.options.HandleScroll {
		return
	}
	m.timeScale.StartScroll(x)
}

func (m *ChartModel) ScrollTimeTo(x float64) {
	if !m.options.HandleScroll {
		return
	}
	m.timeScale.ScrollTo(x)
	m.RecalculateAllPanes()
}

func (m *ChartModel) EndScrollTime() {
	if !m.options.HandleScroll {
		return
	}
	m.timeScale.EndScroll()
	m.LightUpdate()
}

// ZoomTime zooms around pointX, which is clamped to the width of the time scale.
func (m *ChartModel) ZoomTime(pointX float64, scale float64) {
	if m.timeScale.IsEmpty() || scale == 0 || !m.options.HandleScale {
		return
	}
	pointX = chartval.Clamp(pointX, 1, m.timeScale.Width())
	m.timeScale.Zoom(pointX, scale)
	m.RecalculateAllPanes()
}

// ScrollChart scrolls by x pixels.
func (m *ChartModel) ScrollChart(x float64) {
	m.timeScale.StartScroll(0)
	m.timeScale.ScrollTo(x)
	m.RecalculateAllPanes()
	m.timeScale.EndScroll()
	m.LightUpdate()
}

// UpdateTimeScale feeds new points to the time scale. Points are nil and firstChangedPointIndex is -1
// if only the base index changed. The right offset is adjusted such that the visible range stays
// unless the last bar is visible and ShiftVisibleRangeOnNewBar is set.
func (m *ChartModel) UpdateTimeScale(newBaseIndex *int, points []horzscale.Point, firstChangedPointIndex int) {
	oldFirstTime, hasOldFirstTime := m.timeScale.IndexToTime(0)
	pointsUpdated := firstChangedPointIndex != -1
	if pointsUpdated {
		m.timeScale.Update(points, firstChangedPointIndex)
	}
	newFirstTime, hasNewFirstTime := m.timeScale.IndexToTime(0)
	currentBaseIndex := m.timeScale.BaseIndex()
	visibleBars := m.timeScale.VisibleStrictRange()

	if visibleBars != nil && hasOldFirstTime && hasNewFirstTime {
		options := m.timeScale.Options()
		isLastSeriesBarVisible := visibleBars.Contains(currentBaseIndex)
		isLeftBarShiftToLeft := m.behavior.Key(oldFirstTime) > m.behavior.Key(newFirstTime)
		isSeriesPointsAdded := newBaseIndex != nil && *newBaseIndex > currentBaseIndex
		isSeriesPointsAddedToRight := isSeriesPointsAdded && !isLeftBarShiftToLeft
		replacedExistingWhitespace := !pointsUpdated
		needShiftVisibleRangeOnNewBar := isLastSeriesBarVisible &&
			(!replacedExistingWhitespace || options.AllowShiftVisibleRangeOnWhitespaceReplacement) &&
			options.ShiftVisibleRangeOnNewBar
		if isSeriesPointsAddedToRight && !needShiftVisibleRangeOnNewBar {
			compensationShift := *newBaseIndex - currentBaseIndex
			m.timeScale.SetRightOffset(m.timeScale.RightOffset() - float64(compensationShift))
		}
	}
	m.timeScale.SetBaseIndex(newBaseIndex)
}

func (m *ChartModel) RecalculatePane(pane *Pane) {
	if pane != nil {
		pane.Recalculate()
	}
}

func (m *ChartModel) RecalculateAllPanes() {
	for _, pane := range m.panes {
		pane.Recalculate()
	}
	m.UpdateCrosshair()
}

// PaneForSource returns nil if source is not part of the chart.
func (m *ChartModel) PaneForSource(source *series.Series) *Pane {
	for _, pane := range m.panes {
		if pane.HasSource(source) {
			return pane
		}
	}
	return nil
}

// DefaultVisiblePriceScaleID is the scale new series are attached to if they do not name one.
func (m *ChartModel) DefaultVisiblePriceScaleID() string {
	if !m.options.RightPriceScale.Visible && m.options.LeftPriceScale.Visible {
		return LeftPriceScaleID
	}
	return RightPriceScaleID
}

// CreateSeries adds a series to the first pane.
func (m *ChartModel) CreateSeries(seriesType chartapi.SeriesType, options series.Options) *series.Series {
	if options.PriceScaleID == "" {
		options.PriceScaleID = m.DefaultVisiblePriceScaleID()
	}
	s := series.NewSeries(seriesType, options, m.timeScale)
	m.panes[0].AddDataSource(s, options.PriceScaleID, nil)
	m.series = append(m.series, s)
	if len(m.series) == 1 {
		m.FullUpdate()
	} else {
		m.LightUpdate()
	}
	return s
}

// RemoveSeries removes the data of s from the timeline and detaches it.
func (m *ChartModel) RemoveSeries(s *series.Series) {
	index := slices.Index(m.series, s)
	if index == -1 {
		panic("remove series: unknown series")
	}
	m.applyUpdateResponse(m.dataLayer.RemoveSeries(s))
	m.series = slices.Delete(m.series, index, index+1)
	if pane := m.PaneForSource(s); pane != nil {
		pane.RemoveDataSource(s)
	}
	m.LightUpdate()
}

// MoveSeriesToScale attaches s to another price scale, creating an overlay scale if needed.
func (m *ChartModel) MoveSeriesToScale(s *series.Series, targetScaleID string) {
	pane := m.PaneForSource(s)
	if pane == nil {
		panic("move series: series is not part of a pane")
	}
	pane.RemoveDataSource(s)
	zOrder := s.ZOrder()
	targetPane, _, ok := m.FindPriceScale(targetScaleID)
	if !ok {
		pane.AddDataSource(s, targetScaleID, &zOrder)
	} else if targetPane == pane {
		targetPane.AddDataSource(s, targetScaleID, &zOrder)
	} else {
		targetPane.AddDataSource(s, targetScaleID, nil)
	}
	options := s.Options()
	options.PriceScaleID = targetScaleID
	s.ApplyOptions(options)
	m.FullUpdate()
}

// SetSeriesData replaces all data of s.
func (m *ChartModel) SetSeriesData(s *series.Series, items []chartapi.DataItem) error {
	response, err := m.dataLayer.SetSeriesData(s, items)
	if err != nil {
		return fmt.Errorf("set %v series data: %w", s.SeriesType(), err)
	}
	m.applyUpdateResponse(response)
	return nil
}

// UpdateSeriesData replaces the last bar of s or appends a new one.
func (m *ChartModel) UpdateSeriesData(s *series.Series, item chartapi.DataItem) error {
	response, err := m.dataLayer.UpdateSeriesData(s, item)
	if err != nil {
		return fmt.Errorf("update %v series data: %w", s.SeriesType(), err)
	}
	m.applyUpdateResponse(response)
	return nil
}

func (m *ChartModel) applyUpdateResponse(response datalayer.UpdateResponse) {
	ts := response.TimeScale
	m.UpdateTimeScale(ts.BaseIndex, ts.Points, ts.FirstChangedPointIndex)
	for source, changes := range response.Series {
		s, ok := source.(*series.Series)
		if !ok {
			log.Printf("Ignoring data of unknown source %T.", source)
			continue
		}
		s.SetData(changes.Data)
		m.RecalculatePane(m.PaneForSource(s))
		m.UpdateSource(s)
	}
	m.RecalculateAllPanes()
}

func (m *ChartModel) FitContent() {
	mask := Light()
	mask.SetFitContent()
	m.invalidate(mask)
}

func (m *ChartModel) SetTargetLogicalRange(r chartval.Range[float64]) {
	mask := Light()
	mask.ApplyRange(r)
	m.invalidate(mask)
}

func (m *ChartModel) ResetTimeScale() {
	mask := Light()
	mask.ResetTimeScale()
	m.invalidate(mask)
}

func (m *ChartModel) SetBarSpacing(spacing float64) {
	mask := Light()
	mask.SetBarSpacing(spacing)
	m.invalidate(mask)
}

func (m *ChartModel) SetRightOffset(offset float64) {
	mask := Light()
	mask.SetRightOffset(offset)
	m.invalidate(mask)
}

func (m *ChartModel) SetTimeScaleAnimation(animation timescale.TimeAnimation) {
	mask := Light()
	mask.SetTimeScaleAnimation(animation)
	m.invalidate(mask)
}

func (m *ChartModel) StopTimeScaleAnimation() {
	mask := Light()
	mask.StopTimeScaleAnimation()
	m.invalidate(mask)
}

// SetAndSaveCurrentPosition moves the crosshair to the given pane coordinates.
func (m *ChartModel) SetAndSaveCurrentPosition(x, y float64, pane *Pane) {
	m.setAndSaveCurrentPosition(x, y, pane, false)
}

func (m *ChartModel) setAndSaveCurrentPosition(x, y float64, pane *Pane, skipEvent bool) {
	m.crosshair.saveOriginCoord(x, y)
	index := m.timeScale.CoordinateToIndex(x)
	if visibleBars := m.timeScale.VisibleStrictRange(); visibleBars != nil {
		index = chartval.Clamp(index, visibleBars.Left, visibleBars.Right)
	}
	price := math.NaN()
	priceScale := pane.DefaultPriceScale()
	if firstValue, ok := priceScale.FirstValue(); ok && !priceScale.IsEmpty() {
		price = priceScale.CoordinateToPrice(y, firstValue)
	}
	price = m.crosshair.alignPrice(price, index, pane)
	m.crosshair.setPosition(index, price, pane)
	m.CursorUpdate()
	if !skipEvent {
		m.crosshairMoved.Fire(CrosshairMoved{Index: index, Price: price, X: x, Y: y})
	}
}

func (m *ChartModel) ClearCurrentPosition() {
	m.crosshair.clearPosition()
	m.CursorUpdate()
	m.crosshairMoved.Fire(CrosshairMoved{Cleared: true})
}

// UpdateCrosshair recomputes the crosshair from its saved origin, e.g. after scrolling.
func (m *ChartModel) UpdateCrosshair() {
	if pane := m.crosshair.Pane(); pane != nil {
		m.setAndSaveCurrentPosition(m.crosshair.OriginCoordX(), m.crosshair.OriginCoordY(), pane, false)
	}
}

func (m *ChartModel) paneInvalidationMask(pane *Pane, level InvalidationLevel) *InvalidateMask {
	mask := NewInvalidateMask(level)
	if pane != nil {
		mask.InvalidatePane(m.PaneIndex(pane), PaneInvalidation{Level: level})
	}
	return mask
}

func (m *ChartModel) invalidate(mask *InvalidateMask) {
	if m.invalidateHandler != nil {
		m.invalidateHandler(mask)
	}
}
