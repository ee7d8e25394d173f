// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package timescale

import (
	"math"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"time"

	"github.com/google/go-cmp/cmp"
)

// At least this number of bars stays visible when scrolling.
const minVisibleBarsCount = 2

// Labels cached per weight before the cache of that weight is reset.
const maxCachedLabelsPerWeight = 50

// Model is the chart model as seen by the time scale.
type Model interface {
	RecalculateAllPanes()
	LightUpdate()
	// SetBarSpacing and SetRightOffset schedule the change with the next frame.
	SetBarSpacing(spacing float64)
	SetRightOffset(offset float64)
	SetTimeScaleAnimation(animation TimeAnimation)
	FontSize() float64
	// ScrollingAndScalingDisabled is true if the user can neither scroll nor scale.
	ScrollingAndScalingDisabled() bool
}

// TimeMark is a label on the time scale.
type TimeMark struct {
	NeedAlignCoordinate bool
	Coord               float64
	Label               string
	Weight              horzscale.TickMarkWeight
}

type TimePointsRange struct {
	From horzscale.Point
	To   horzscale.Point
}

type transitionState struct {
	barSpacing  float64
	rightOffset float64
}

// VisibleRange is a logical range with its strict index range.
type VisibleRange struct {
	logical *chartval.Range[float64]
}

func (r VisibleRange) LogicalRange() *chartval.Range[float64] {
	return r.logical
}

func (r VisibleRange) StrictRange() *chartval.Range[int] {
	if r.logical == nil {
		return nil
	}
	strict := chartval.Range[int]{Left: int(math.Floor(r.logical.Left)), Right: int(math.Ceil(r.logical.Right))}
	return &strict
}

// TimeScale maps point indices to horizontal pixel coordinates.
type TimeScale struct {
	options  Options
	model    Model
	behavior horzscale.Behavior
	now      func() time.Time

	width       float64
	baseIndex   *int
	rightOffset float64
	points      []horzscale.Point
	barSpacing  float64

	scrollStartPoint      *float64
	scaleStartPoint       *float64
	commonTransitionStart *transitionState

	tickMarks         *TickMarks
	formattedByWeight map[horzscale.TickMarkWeight]map[int64]string

	visibleRange            VisibleRange
	visibleRangeInvalidated bool
	timeMarksCache          []TimeMark
	hasTimeMarksCache       bool

	visibleBarsChanged  chartval.Delegate[struct{}]
	logicalRangeChanged chartval.Delegate[struct{}]
	optionsApplied      chartval.Delegate[struct{}]
}

func NewTimeScale(model Model, options Options, behavior horzscale.Behavior) *TimeScale {
	s := &TimeScale{
		options:                 options,
		model:                   model,
		behavior:                behavior,
		now:                     time.Now,
		rightOffset:             options.RightOffset,
		barSpacing:              options.BarSpacing,
		tickMarks:               NewTickMarks(),
		formattedByWeight:       make(map[horzscale.TickMarkWeight]map[int64]string),
		visibleRangeInvalidated: true,
	}
	s.tickMarks.SetUniformDistribution(options.UniformDistribution)
	return s
}

// SetClock replaces time.Now, used for animations.
func (s *TimeScale) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TimeScale) Options() Options {
	return s.options
}

func (s *TimeScale) Behavior() horzscale.Behavior {
	return s.behavior
}

// ApplyOptions replaces the options. Bar spacing and right offset changes are scheduled via the model.
func (s *TimeScale) ApplyOptions(options Options) {
	if cmp.Equal(s.options, options) {
		return
	}
	old := s.options
	s.options = options
	if options.FixLeftEdge {
		s.doFixLeftEdge()
	}
	if options.FixRightEdge {
		s.correctOffset()
		s.correctBarSpacing()
	}
	// Bar spacing first, the right offset depends on it.
	if old.BarSpacing != options.BarSpacing || old.MinBarSpacing != options.MinBarSpacing || old.MaxBarSpacing != options.MaxBarSpacing {
		s.model.SetBarSpacing(options.BarSpacing)
	}
	if old.RightOffset != options.RightOffset {
		s.model.SetRightOffset(options.RightOffset)
	}
	if old.UniformDistribution != options.UniformDistribution {
		s.tickMarks.SetUniformDistribution(options.UniformDistribution)
	}
	s.invalidateTickMarks()
	s.optionsApplied.Fire(struct{}{})
}

func (s *TimeScale) OnVisibleBarsChanged() *chartval.Delegate[struct{}] {
	return &s.visibleBarsChanged
}

func (s *TimeScale) OnLogicalRangeChanged() *chartval.Delegate[struct{}] {
	return &s.logicalRangeChanged
}

func (s *TimeScale) OnOptionsApplied() *chartval.Delegate[struct{}] {
	return &s.optionsApplied
}

func (s *TimeScale) IndexToTime(index int) (horzscale.TimePoint, bool) {
	if index < 0 || index >= len(s.points) {
		return horzscale.TimePoint{}, false
	}
	return s.points[index].Time, true
}

func (s *TimeScale) IndexToTimeScalePoint(index int) (horzscale.Point, bool) {
	if index < 0 || index >= len(s.points) {
		return horzscale.Point{}, false
	}
	return s.points[index], true
}

// TimeToIndex returns the index of the point with the same time key. If findNearest is set, the next
// point to the right (or the last point) is returned if there is no exact match.
func (s *TimeScale) TimeToIndex(t horzscale.TimePoint, findNearest bool) (int, bool) {
	if len(s.points) == 0 {
		return 0, false
	}
	key := s.behavior.Key(t)
	if key > s.behavior.Key(s.points[len(s.points)-1].Time) {
		return len(s.points) - 1, findNearest
	}
	index := chartval.LowerBound(s.points, key, func(p horzscale.Point, k int64) bool {
		return s.behavior.Key(p.Time) < k
	})
	if key < s.behavior.Key(s.points[index].Time) {
		return index, findNearest
	}
	return index, true
}

func (s *TimeScale) IsEmpty() bool {
	return s.width == 0 || len(s.points) == 0 || s.baseIndex == nil
}

func (s *TimeScale) HasPoints() bool {
	return len(s.points) > 0
}

func (s *TimeScale) Points() []horzscale.Point {
	return s.points
}

// VisibleStrictRange is the visible range of whole bar indices, nil if the scale is empty.
func (s *TimeScale) VisibleStrictRange() *chartval.Range[int] {
	s.updateVisibleRange()
	return s.visibleRange.StrictRange()
}

func (s *TimeScale) VisibleLogicalRange() *chartval.Range[float64] {
	s.updateVisibleRange()
	return s.visibleRange.LogicalRange()
}

func (s *TimeScale) VisibleTimeRange() (TimePointsRange, bool) {
	visibleBars := s.VisibleStrictRange()
	if visibleBars == nil {
		return TimePointsRange{}, false
	}
	return s.TimeRangeForLogicalRange(chartval.NewRange(float64(visibleBars.Left), float64(visibleBars.Right)))
}

// TimeRangeForLogicalRange clamps the range to the existing points.
func (s *TimeScale) TimeRangeForLogicalRange(r chartval.Range[float64]) (TimePointsRange, bool) {
	if len(s.points) == 0 {
		return TimePointsRange{}, false
	}
	from := int(math.Round(r.Left))
	to := int(math.Round(r.Right))
	from = chartval.Clamp(from, 0, len(s.points)-1)
	to = chartval.Clamp(to, 0, len(s.points)-1)
	return TimePointsRange{From: s.points[from], To: s.points[to]}, true
}

func (s *TimeScale) LogicalRangeForTimeRange(from, to horzscale.TimePoint) (chartval.Range[float64], bool) {
	fromIndex, ok1 := s.TimeToIndex(from, true)
	toIndex, ok2 := s.TimeToIndex(to, true)
	if !ok1 || !ok2 || fromIndex > toIndex {
		return chartval.Range[float64]{}, false
	}
	return chartval.NewRange(float64(fromIndex), float64(toIndex)), true
}

func (s *TimeScale) Width() float64 {
	return s.width
}

func (s *TimeScale) SetWidth(newWidth float64) {
	if math.IsInf(newWidth, 0) || math.IsNaN(newWidth) || newWidth <= 0 {
		return
	}
	if s.width == newWidth {
		return
	}
	// The previous range is used for fixing the left edge.
	previousVisibleRange := s.VisibleLogicalRange()
	oldWidth := s.width
	s.width = newWidth
	s.visibleRangeInvalidated = true

	if s.options.LockVisibleTimeRangeOnResize && oldWidth != 0 {
		s.barSpacing = s.barSpacing * newWidth / oldWidth
	}
	// Keep the left edge instead of the right one.
	if s.options.FixLeftEdge && previousVisibleRange != nil && previousVisibleRange.Left <= 0 {
		delta := oldWidth - newWidth
		// Moving too far is fixed by correctOffset.
		s.rightOffset -= math.Round(delta/s.barSpacing) + 1
		s.visibleRangeInvalidated = true
	}
	s.correctBarSpacing()
	s.correctOffset()
}

// IndexToCoordinate returns the x coordinate of the center of the bar, 0 for empty scales.
func (s *TimeScale) IndexToCoordinate(index int) float64 {
	if s.IsEmpty() {
		return 0
	}
	deltaFromRight := float64(s.BaseIndex()) + s.rightOffset - float64(index)
	return s.width - (deltaFromRight+0.5)*s.barSpacing - 1
}

// TimedValue is a point index with its x coordinate, filled by IndexesToCoordinates.
type TimedValue struct {
	Index int
	X     float64
}

func (s *TimeScale) IndexesToCoordinates(points []TimedValue) {
	baseIndex := float64(s.BaseIndex())
	for i := range points {
		deltaFromRight := baseIndex + s.rightOffset - float64(points[i].Index)
		points[i].X = s.width - (deltaFromRight+0.5)*s.barSpacing - 1
	}
}

func (s *TimeScale) CoordinateToIndex(x float64) int {
	return int(math.Ceil(s.coordinateToFloatIndex(x)))
}

func (s *TimeScale) coordinateToFloatIndex(x float64) float64 {
	deltaFromRight := (s.width - 1 - x) / s.barSpacing
	index := float64(s.BaseIndex()) + s.rightOffset - deltaFromRight
	return math.Round(index*1000000) / 1000000
}

func (s *TimeScale) SetRightOffset(offset float64) {
	s.visibleRangeInvalidated = true
	s.rightOffset = offset
	s.correctOffset()
	s.model.RecalculateAllPanes()
	s.model.LightUpdate()
}

func (s *TimeScale) RightOffset() float64 {
	return s.rightOffset
}

func (s *TimeScale) BarSpacing() float64 {
	return s.barSpacing
}

func (s *TimeScale) SetBarSpacing(spacing float64) {
	s.setBarSpacing(spacing)
	// Do not allow to scroll out of visible bars.
	s.correctOffset()
	s.model.RecalculateAllPanes()
	s.model.LightUpdate()
}

func (s *TimeScale) setBarSpacing(spacing float64) {
	old := s.barSpacing
	s.barSpacing = spacing
	s.correctBarSpacing()
	if old != s.barSpacing {
		s.visibleRangeInvalidated = true
		s.resetTimeMarksCache()
	}
}

// BaseIndex is the index of the last bar, 0 if not set.
func (s *TimeScale) BaseIndex() int {
	if s.baseIndex == nil {
		return 0
	}
	return *s.baseIndex
}

func (s *TimeScale) SetBaseIndex(baseIndex *int) {
	s.visibleRangeInvalidated = true
	if baseIndex == nil {
		s.baseIndex = nil
	} else {
		index := *baseIndex
		s.baseIndex = &index
	}
	s.correctOffset()
	s.doFixLeftEdge()
}

// Marks returns the visible labels, nil if the scale is empty.
func (s *TimeScale) Marks() []TimeMark {
	if s.IsEmpty() {
		return nil
	}
	s.updateVisibleRange()
	if s.hasTimeMarksCache {
		return s.timeMarksCache
	}
	spacing := s.barSpacing
	pixelsPer8Characters := (s.model.FontSize() + 4) * 5
	pixelsPerCharacter := pixelsPer8Characters / defaultTickMarkMaxCharacterLength
	maxCharacters := s.options.TickMarkMaxCharacterLength
	if maxCharacters <= 0 {
		maxCharacters = defaultTickMarkMaxCharacterLength
	}
	maxLabelWidth := pixelsPerCharacter * float64(maxCharacters)
	indexPerLabel := int(math.Round(maxLabelWidth / spacing))

	visibleBars := s.VisibleStrictRange()
	firstBar := max(visibleBars.Left, visibleBars.Left-indexPerLabel)
	lastBar := max(visibleBars.Right, visibleBars.Right-indexPerLabel)
	items := s.tickMarks.Build(spacing, maxLabelWidth)

	// Earliest index which might be used as the second label, and the latest for the second last.
	earliestIndexOfSecondLabel := indexPerLabel
	indexOfSecondLastLabel := len(s.points) - 1 - indexPerLabel
	allDisabled := s.model.ScrollingAndScalingDisabled()
	isLeftEdgeFixed := s.options.FixLeftEdge || allDisabled
	isRightEdgeFixed := s.options.FixRightEdge || allDisabled

	var labels []TimeMark
	for _, tm := range items {
		if tm.Index < firstBar || tm.Index > lastBar {
			continue
		}
		label := TimeMark{
			Coord:  s.IndexToCoordinate(tm.Index),
			Label:  s.formatLabel(tm),
			Weight: tm.Weight,
		}
		if s.barSpacing <= maxLabelWidth/2 || allDisabled {
			// Labels at the edges might need alignment if the user cannot scroll past them.
			label.NeedAlignCoordinate = (isLeftEdgeFixed && tm.Index <= earliestIndexOfSecondLabel) ||
				(isRightEdgeFixed && tm.Index >= indexOfSecondLastLabel)
		}
		labels = append(labels, label)
	}
	s.timeMarksCache = labels
	s.hasTimeMarksCache = true
	return labels
}

func (s *TimeScale) formatLabel(tm horzscale.TickMark) string {
	cache, ok := s.formattedByWeight[tm.Weight]
	if !ok || len(cache) >= maxCachedLabelsPerWeight {
		cache = make(map[int64]string)
		s.formattedByWeight[tm.Weight] = cache
	}
	key := s.behavior.Key(tm.Time)
	if label, ok := cache[key]; ok {
		return label
	}
	label := s.behavior.FormatTickMark(tm)
	cache[key] = label
	return label
}

func (s *TimeScale) RestoreDefault() {
	s.visibleRangeInvalidated = true
	s.SetBarSpacing(s.options.BarSpacing)
	s.SetRightOffset(s.options.RightOffset)
}

// Zoom changes the bar spacing around zoomPoint, positive scale zooms in.
func (s *TimeScale) Zoom(zoomPoint float64, scale float64) {
	floatIndexAtZoomPoint := s.coordinateToFloatIndex(zoomPoint)
	barSpacing := s.BarSpacing()
	s.SetBarSpacing(barSpacing + scale*(barSpacing/10))
	if !s.options.RightBarStaysOnScroll {
		// Move the index under the zoom point back to its coordinate.
		s.SetRightOffset(s.RightOffset() + (floatIndexAtZoomPoint - s.coordinateToFloatIndex(zoomPoint)))
	}
}

func (s *TimeScale) StartScale(x float64) {
	if s.scrollStartPoint != nil {
		s.EndScroll()
	}
	if s.scaleStartPoint != nil || s.commonTransitionStart != nil {
		return
	}
	if s.IsEmpty() {
		return
	}
	s.scaleStartPoint = &x
	s.saveCommonTransitionStartState()
}

func (s *TimeScale) ScaleTo(x float64) {
	// A scroll also saves the transition state, without a scale start point.
	if s.commonTransitionStart == nil || s.scaleStartPoint == nil {
		return
	}
	startLengthFromRight := chartval.Clamp(s.width-x, 0, s.width)
	currentLengthFromRight := chartval.Clamp(s.width-*s.scaleStartPoint, 0, s.width)
	if startLengthFromRight == 0 || currentLengthFromRight == 0 {
		return
	}
	s.SetBarSpacing(s.commonTransitionStart.barSpacing * startLengthFromRight / currentLengthFromRight)
}

func (s *TimeScale) EndScale() {
	if s.scaleStartPoint == nil {
		return
	}
	s.scaleStartPoint = nil
	s.commonTransitionStart = nil
}

func (s *TimeScale) StartScroll(x float64) {
	if s.scrollStartPoint != nil || s.commonTransitionStart != nil {
		return
	}
	if s.IsEmpty() {
		return
	}
	s.scrollStartPoint = &x
	s.saveCommonTransitionStartState()
}

func (s *TimeScale) ScrollTo(x float64) {
	if s.scrollStartPoint == nil {
		return
	}
	shiftInLogical := (*s.scrollStartPoint - x) / s.BarSpacing()
	s.rightOffset = s.commonTransitionStart.rightOffset + shiftInLogical
	s.visibleRangeInvalidated = true
	s.correctOffset()
}

func (s *TimeScale) EndScroll() {
	if s.scrollStartPoint == nil {
		return
	}
	s.scrollStartPoint = nil
	s.commonTransitionStart = nil
}

func (s *TimeScale) saveCommonTransitionStartState() {
	s.commonTransitionStart = &transitionState{barSpacing: s.barSpacing, rightOffset: s.rightOffset}
}

// KineticScroll returns an animation continuing a scroll which ended at pixel position x.
func (s *TimeScale) KineticScroll(kinetic *KineticAnimation, x float64) TimeAnimation {
	return &kineticScroll{kinetic: kinetic, startOffset: s.rightOffset, startX: x, barSpacing: s.barSpacing}
}

func (s *TimeScale) ScrollToRealTime() {
	s.ScrollToOffsetAnimated(s.options.RightOffset, DefaultAnimationDuration)
}

// ScrollToOffsetAnimated panics if offset is not finite or duration is not positive.
func (s *TimeScale) ScrollToOffsetAnimated(offset float64, duration time.Duration) {
	if math.IsInf(offset, 0) || math.IsNaN(offset) {
		panic("offset is required and must be finite number")
	}
	if duration <= 0 {
		panic("animation duration must be positive")
	}
	s.model.SetTimeScaleAnimation(&offsetAnimation{
		start:    s.now(),
		duration: duration,
		source:   s.rightOffset,
		target:   offset,
	})
}

// Update replaces the points, indices before firstChangedPointIndex are unchanged.
func (s *TimeScale) Update(points []horzscale.Point, firstChangedPointIndex int) {
	s.visibleRangeInvalidated = true
	s.points = points
	s.tickMarks.SetTimeScalePoints(points, firstChangedPointIndex)
	s.correctOffset()
}

// SetVisibleRange sets bar spacing and right offset such that the range fills the width.
func (s *TimeScale) SetVisibleRange(r chartval.Range[float64]) {
	length := r.Count()
	if length <= 0 {
		return
	}
	s.barSpacing = s.width / length
	s.rightOffset = r.Right - float64(s.BaseIndex())
	s.visibleRangeInvalidated = true
	s.correctBarSpacing()
	s.correctOffset()
	s.model.RecalculateAllPanes()
	s.model.LightUpdate()
}

func (s *TimeScale) SetLogicalRange(r chartval.Range[float64]) {
	s.SetVisibleRange(r)
}

// FitContent shows all points plus the default right offset.
func (s *TimeScale) FitContent() {
	if len(s.points) == 0 {
		return
	}
	s.SetVisibleRange(chartval.NewRange(0, float64(len(s.points)-1)+s.options.RightOffset))
}

func (s *TimeScale) updateVisibleRange() {
	if !s.visibleRangeInvalidated {
		return
	}
	s.visibleRangeInvalidated = false
	if s.IsEmpty() {
		s.setVisibleRange(VisibleRange{})
		return
	}
	newBarsLength := s.width / s.barSpacing
	rightBorder := s.rightOffset + float64(s.BaseIndex())
	leftBorder := rightBorder - newBarsLength + 1
	logical := chartval.Range[float64]{Left: leftBorder, Right: rightBorder}
	s.setVisibleRange(VisibleRange{logical: &logical})
}

func (s *TimeScale) setVisibleRange(r VisibleRange) {
	old := s.visibleRange
	s.visibleRange = r
	if !chartval.RangesEqual(old.StrictRange(), r.StrictRange()) {
		s.visibleBarsChanged.Fire(struct{}{})
	}
	if !chartval.RangesEqual(old.LogicalRange(), r.LogicalRange()) {
		s.logicalRangeChanged.Fire(struct{}{})
	}
	s.resetTimeMarksCache()
}

func (s *TimeScale) maxBarSpacing() float64 {
	if s.options.MaxBarSpacing > 0 {
		return s.options.MaxBarSpacing
	}
	return s.width * 0.5
}

func (s *TimeScale) minBarSpacing() float64 {
	// Do not zoom out further than all points if both edges are fixed.
	if s.options.FixLeftEdge && s.options.FixRightEdge && len(s.points) != 0 {
		return s.width / float64(len(s.points))
	}
	return s.options.MinBarSpacing
}

func (s *TimeScale) correctBarSpacing() {
	if minSpacing := s.minBarSpacing(); s.barSpacing < minSpacing {
		s.barSpacing = minSpacing
		s.visibleRangeInvalidated = true
	}
	if s.width != 0 {
		if maxSpacing := s.maxBarSpacing(); s.barSpacing > maxSpacing {
			s.barSpacing = maxSpacing
			s.visibleRangeInvalidated = true
		}
	}
}

func (s *TimeScale) correctOffset() {
	// Block scrolling into the future.
	if maxOffset := s.maxRightOffset(); s.rightOffset > maxOffset {
		s.rightOffset = maxOffset
		s.visibleRangeInvalidated = true
	}
	// Block scrolling into the past.
	if minOffset, ok := s.minRightOffset(); ok && s.rightOffset < minOffset {
		s.rightOffset = minOffset
		s.visibleRangeInvalidated = true
	}
}

func (s *TimeScale) minRightOffset() (float64, bool) {
	if len(s.points) == 0 || s.baseIndex == nil {
		return 0, false
	}
	barsEstimation := float64(min(minVisibleBarsCount, len(s.points)))
	if s.options.FixLeftEdge {
		barsEstimation = s.width / s.barSpacing
	}
	return float64(-*s.baseIndex) - 1 + barsEstimation, true
}

func (s *TimeScale) maxRightOffset() float64 {
	if s.options.FixRightEdge {
		return 0
	}
	return s.width/s.barSpacing - float64(min(minVisibleBarsCount, len(s.points)))
}

func (s *TimeScale) doFixLeftEdge() {
	if !s.options.FixLeftEdge || len(s.points) == 0 {
		return
	}
	visibleRange := s.VisibleStrictRange()
	if visibleRange == nil {
		return
	}
	if delta := visibleRange.Left; delta < 0 {
		s.SetRightOffset(s.rightOffset - float64(delta) - 1)
	}
	s.correctBarSpacing()
}

func (s *TimeScale) resetTimeMarksCache() {
	s.timeMarksCache = nil
	s.hasTimeMarksCache = false
}

func (s *TimeScale) invalidateTickMarks() {
	s.resetTimeMarksCache()
	clear(s.formattedByWeight)
}
