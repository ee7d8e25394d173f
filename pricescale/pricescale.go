// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import (
	"math"
	"maycharts/chartval"

	"golang.org/x/exp/slices"
)

const DefaultFontSize = 12

var (
	defaultPriceFormatter = chartval.NewPriceFormatter(100, 1)
	percentageFormatter   = chartval.NewPercentageFormatter()
)

type marksCache struct {
	marks            []PriceMark
	firstValueIsNull bool
}

type invalidatedRange struct {
	visibleBars *chartval.Range[int]
	isValid     bool
}

// PriceScale maps prices to vertical pixel coordinates.
type PriceScale struct {
	id       string
	options  Options
	fontSize float64
	height   float64

	dataSources          []DataSource
	cachedOrderedSources []DataSource

	priceRange          *PriceRange
	priceRangeSnapshot  *PriceRange
	invalidatedForRange invalidatedRange
	logFormula          LogFormula

	marginAbove float64
	marginBelow float64

	markBuilder *TickMarkBuilder
	marksCache  *marksCache
	formatter   chartval.Formatter

	scaleStartPoint  *float64
	scrollStartPoint *float64

	modeChanged  chartval.Delegate[StateChange]
	marksChanged chartval.Delegate[struct{}]
}

// NewPriceScale panics on invalid scale margins.
func NewPriceScale(id string, options Options) *PriceScale {
	validateMargins(options.ScaleMargins)
	s := &PriceScale{
		id:                  id,
		options:             options,
		fontSize:            DefaultFontSize,
		invalidatedForRange: invalidatedRange{isValid: true},
		logFormula:          LogFormulaForPriceRange(nil),
	}
	s.markBuilder = newTickMarkBuilder(s, 100)
	return s
}

func (s *PriceScale) ID() string {
	return s.id
}

func (s *PriceScale) Options() Options {
	return s.options
}

// ApplyOptions replaces all options. Mode related options are applied like SetMode.
func (s *PriceScale) ApplyOptions(options Options) {
	validateMargins(options.ScaleMargins)
	marginsChanged := s.options.ScaleMargins != options.ScaleMargins
	update := StateUpdate{AutoScale: &options.AutoScale, IsInverted: &options.InvertScale, Mode: &options.Mode}
	options.AutoScale = s.options.AutoScale
	options.InvertScale = s.options.InvertScale
	options.Mode = s.options.Mode
	s.options = options
	s.UpdateFormatter()
	s.SetMode(update)
	if marginsChanged {
		s.marksCache = nil
	}
}

func (s *PriceScale) IsAutoScale() bool {
	return s.options.AutoScale
}

func (s *PriceScale) IsLog() bool {
	return s.options.Mode == Logarithmic
}

func (s *PriceScale) IsPercentage() bool {
	return s.options.Mode == Percentage
}

func (s *PriceScale) IsIndexedTo100() bool {
	return s.options.Mode == IndexedTo100
}

func (s *PriceScale) IsInverted() bool {
	return s.options.InvertScale
}

func (s *PriceScale) Mode() State {
	return State{AutoScale: s.options.AutoScale, IsInverted: s.options.InvertScale, Mode: s.options.Mode}
}

// SetMode converts the current price range into the space of the new mode.
func (s *PriceScale) SetMode(update StateUpdate) {
	oldMode := s.Mode()
	if update.AutoScale != nil {
		s.options.AutoScale = *update.AutoScale
	}
	if update.Mode != nil {
		s.options.Mode = *update.Mode
		if *update.Mode == Percentage || *update.Mode == IndexedTo100 {
			s.options.AutoScale = true
		}
		s.invalidatedForRange.isValid = false
	}
	newModeDiffers := update.Mode != nil && *update.Mode != oldMode.Mode

	if oldMode.Mode == Logarithmic && newModeDiffers {
		if CanConvertPriceRangeFromLog(s.priceRange, s.logFormula) {
			if r := ConvertPriceRangeFromLog(s.priceRange, s.logFormula); r != nil {
				s.SetPriceRange(r, false)
			}
		} else {
			s.options.AutoScale = true
		}
	}
	if newModeDiffers && *update.Mode == Logarithmic {
		if r := ConvertPriceRangeToLog(s.priceRange, s.logFormula); r != nil {
			s.SetPriceRange(r, false)
		}
	}

	modeChanged := oldMode.Mode != s.options.Mode
	if modeChanged && (oldMode.Mode == Percentage || s.IsPercentage() || oldMode.Mode == IndexedTo100 || s.IsIndexedTo100()) {
		s.UpdateFormatter()
	}
	if update.IsInverted != nil && oldMode.IsInverted != *update.IsInverted {
		s.options.InvertScale = *update.IsInverted
		s.marksCache = nil
		s.markBuilder.RebuildTickMarks()
	}
	s.modeChanged.Fire(StateChange{Old: oldMode, New: s.Mode()})
}

func (s *PriceScale) OnModeChanged() *chartval.Delegate[StateChange] {
	return &s.modeChanged
}

func (s *PriceScale) OnMarksChanged() *chartval.Delegate[struct{}] {
	return &s.marksChanged
}

func (s *PriceScale) FontSize() float64 {
	return s.fontSize
}

func (s *PriceScale) SetFontSize(fontSize float64) {
	if s.fontSize == fontSize {
		return
	}
	s.fontSize = fontSize
	s.marksCache = nil
}

func (s *PriceScale) Height() float64 {
	return s.height
}

func (s *PriceScale) SetHeight(height float64) {
	if s.height == height {
		return
	}
	s.height = height
	s.marksCache = nil
}

func (s *PriceScale) topMarginPx() float64 {
	if s.IsInverted() {
		return s.options.ScaleMargins.Bottom*s.height + s.marginBelow
	}
	return s.options.ScaleMargins.Top*s.height + s.marginAbove
}

func (s *PriceScale) bottomMarginPx() float64 {
	if s.IsInverted() {
		return s.options.ScaleMargins.Top*s.height + s.marginAbove
	}
	return s.options.ScaleMargins.Bottom*s.height + s.marginBelow
}

// InternalHeight is the height without margins.
func (s *PriceScale) InternalHeight() float64 {
	return s.height - s.topMarginPx() - s.bottomMarginPx()
}

// PriceRange returns a copy of the current range in the space of the mode, nil if none is set.
func (s *PriceScale) PriceRange() *PriceRange {
	s.makeSureItIsValid()
	if s.priceRange == nil {
		return nil
	}
	r := *s.priceRange
	return &r
}

// SetPriceRange ignores equal ranges unless force is set.
func (s *PriceScale) SetPriceRange(r *PriceRange, force bool) {
	old := s.priceRange
	if !force && !(old == nil && r != nil) && (old == nil || rangesEqual(old, r)) {
		return
	}
	s.marksCache = nil
	if r == nil {
		s.priceRange = nil
		return
	}
	copied := *r
	s.priceRange = &copied
}

func (s *PriceScale) IsEmpty() bool {
	s.makeSureItIsValid()
	return s.height == 0 || s.priceRange == nil || s.priceRange.IsEmpty()
}

func (s *PriceScale) InvertedCoordinate(coordinate float64) float64 {
	if s.IsInverted() {
		return coordinate
	}
	return s.height - 1 - coordinate
}

func (s *PriceScale) PriceToCoordinate(price, baseValue float64) float64 {
	if s.IsPercentage() {
		price = ToPercent(price, baseValue)
	} else if s.IsIndexedTo100() {
		price = ToIndexedTo100(price, baseValue)
	}
	return s.logicalToCoordinate(price, baseValue)
}

func (s *PriceScale) CoordinateToPrice(coordinate, baseValue float64) float64 {
	return s.LogicalToPrice(s.coordinateToLogical(coordinate, baseValue), baseValue)
}

func (s *PriceScale) LogicalToPrice(logical, baseValue float64) float64 {
	if s.IsPercentage() {
		return FromPercent(logical, baseValue)
	}
	if s.IsIndexedTo100() {
		return FromIndexedTo100(logical, baseValue)
	}
	return logical
}

func (s *PriceScale) logicalToCoordinate(logical, _ float64) float64 {
	s.makeSureItIsValid()
	if s.IsEmpty() {
		return 0
	}
	if s.IsLog() && logical != 0 {
		logical = ToLog(logical, s.logFormula)
	}
	r := s.priceRange
	invCoordinate := s.bottomMarginPx() + (s.InternalHeight()-1)*(logical-r.Min)/r.Length()
	return s.InvertedCoordinate(invCoordinate)
}

func (s *PriceScale) coordinateToLogical(coordinate, _ float64) float64 {
	s.makeSureItIsValid()
	if s.IsEmpty() {
		return 0
	}
	invCoordinate := s.InvertedCoordinate(coordinate)
	r := s.priceRange
	logical := r.Min + r.Length()*((invCoordinate-s.bottomMarginPx())/(s.InternalHeight()-1))
	if s.IsLog() {
		return FromLog(logical, s.logFormula)
	}
	return logical
}

func (s *PriceScale) coordinateTransformer() func(price, baseValue float64) float64 {
	switch {
	case s.IsPercentage():
		return ToPercent
	case s.IsIndexedTo100():
		return ToIndexedTo100
	case s.IsLog():
		return func(price, _ float64) float64 { return ToLog(price, s.logFormula) }
	}
	return nil
}

// PricedValue is a price with its y coordinate, filled by PointsArrayToCoordinates.
type PricedValue struct {
	Price float64
	Y     float64
}

// PointsArrayToCoordinates sets Y of all points. Points with a NaN price are skipped.
func (s *PriceScale) PointsArrayToCoordinates(points []PricedValue, baseValue float64) {
	s.makeSureItIsValid()
	if s.IsEmpty() {
		return
	}
	bh := s.bottomMarginPx()
	r := *s.priceRange
	hmm := (s.InternalHeight() - 1) / r.Length()
	transform := s.coordinateTransformer()
	for i := range points {
		logical := points[i].Price
		if math.IsNaN(logical) {
			continue
		}
		if transform != nil {
			logical = transform(logical, baseValue)
		}
		points[i].Y = s.InvertedCoordinate(bh + hmm*(logical-r.Min))
	}
}

type BarCoordinates struct {
	Open, High, Low, Close     float64
	OpenY, HighY, LowY, CloseY float64
}

func (s *PriceScale) BarPricesToCoordinates(bars []BarCoordinates, baseValue float64) {
	s.makeSureItIsValid()
	if s.IsEmpty() {
		return
	}
	bh := s.bottomMarginPx()
	r := *s.priceRange
	hmm := (s.InternalHeight() - 1) / r.Length()
	transform := s.coordinateTransformer()
	toCoord := func(price float64) float64 {
		if transform != nil {
			price = transform(price, baseValue)
		}
		return s.InvertedCoordinate(bh + hmm*(price-r.Min))
	}
	for i := range bars {
		b := &bars[i]
		b.OpenY = toCoord(b.Open)
		b.HighY = toCoord(b.High)
		b.LowY = toCoord(b.Low)
		b.CloseY = toCoord(b.Close)
	}
}

func (s *PriceScale) DataSources() []DataSource {
	return s.dataSources
}

// OrderedSources are sorted by z-order, the order of equal z-orders is kept.
func (s *PriceScale) OrderedSources() []DataSource {
	if s.cachedOrderedSources != nil {
		return s.cachedOrderedSources
	}
	sources := slices.Clone(s.dataSources)
	slices.SortStableFunc(sources, func(a, b DataSource) int {
		return a.ZOrder() - b.ZOrder()
	})
	s.cachedOrderedSources = sources
	return sources
}

func (s *PriceScale) InvalidateSourcesCache() {
	s.cachedOrderedSources = nil
}

func (s *PriceScale) HasSource(source DataSource) bool {
	return chartval.IndexOf(s.dataSources, source) != -1
}

func (s *PriceScale) AddDataSource(source DataSource) {
	if s.HasSource(source) {
		return
	}
	s.dataSources = append(s.dataSources, source)
	s.UpdateFormatter()
	s.InvalidateSourcesCache()
}

// RemoveDataSource panics if the source is not attached to this scale.
func (s *PriceScale) RemoveDataSource(source DataSource) {
	index := chartval.IndexOf(s.dataSources, source)
	if index == -1 {
		panic("source is not attached to scale")
	}
	s.dataSources = slices.Delete(s.dataSources, index, index+1)
	if len(s.dataSources) == 0 {
		autoScale := true
		s.SetMode(StateUpdate{AutoScale: &autoScale})
		s.SetPriceRange(nil, false)
	}
	s.UpdateFormatter()
	s.InvalidateSourcesCache()
}

// FirstValue returns the value of the source whose first value has the lowest index.
func (s *PriceScale) FirstValue() (float64, bool) {
	var result float64
	found := false
	minIndex := 0
	for _, source := range s.dataSources {
		firstValue, ok := source.FirstValue()
		if !ok {
			continue
		}
		if !found || firstValue.Index < minIndex {
			minIndex = firstValue.Index
			result = firstValue.Value
			found = true
		}
	}
	return result, found
}

func (s *PriceScale) Marks() []PriceMark {
	_, hasFirstValue := s.FirstValue()
	firstValueIsNull := !hasFirstValue
	if s.marksCache != nil && (firstValueIsNull || s.marksCache.firstValueIsNull == firstValueIsNull) {
		return s.marksCache.marks
	}
	s.markBuilder.RebuildTickMarks()
	marks := s.markBuilder.Marks()
	s.marksCache = &marksCache{marks: marks, firstValueIsNull: firstValueIsNull}
	s.marksChanged.Fire(struct{}{})
	return marks
}

func (s *PriceScale) StartScale(x float64) {
	if s.IsPercentage() || s.IsIndexedTo100() {
		return
	}
	if s.scaleStartPoint != nil || s.priceRangeSnapshot != nil {
		return
	}
	if s.IsEmpty() {
		return
	}
	start := s.height - x
	s.scaleStartPoint = &start
	snapshot := *s.priceRange
	s.priceRangeSnapshot = &snapshot
}

func (s *PriceScale) ScaleTo(x float64) {
	if s.IsPercentage() || s.IsIndexedTo100() {
		return
	}
	if s.scaleStartPoint == nil {
		return
	}
	autoScale := false
	s.SetMode(StateUpdate{AutoScale: &autoScale})
	x = max(s.height-x, 0)
	scaleCoeff := (*s.scaleStartPoint + (s.height-1)*0.2) / (x + (s.height-1)*0.2)
	scaleCoeff = max(scaleCoeff, 0.1)
	r := s.priceRangeSnapshot.ScaleAroundCenter(scaleCoeff)
	s.SetPriceRange(&r, false)
}

func (s *PriceScale) EndScale() {
	if s.IsPercentage() || s.IsIndexedTo100() {
		return
	}
	s.scaleStartPoint = nil
	s.priceRangeSnapshot = nil
}

func (s *PriceScale) StartScroll(x float64) {
	if s.IsAutoScale() {
		return
	}
	if s.scrollStartPoint != nil || s.priceRangeSnapshot != nil {
		return
	}
	if s.IsEmpty() {
		return
	}
	s.scrollStartPoint = &x
	snapshot := *s.priceRange
	s.priceRangeSnapshot = &snapshot
}

func (s *PriceScale) ScrollTo(x float64) {
	if s.IsAutoScale() {
		return
	}
	if s.scrollStartPoint == nil {
		return
	}
	priceUnitsPerPixel := s.PriceRange().Length() / (s.InternalHeight() - 1)
	pixelDelta := x - *s.scrollStartPoint
	if s.IsInverted() {
		pixelDelta = -pixelDelta
	}
	r := s.priceRangeSnapshot.Shift(pixelDelta * priceUnitsPerPixel)
	s.SetPriceRange(&r, true)
	s.marksCache = nil
}

func (s *PriceScale) EndScroll() {
	if s.IsAutoScale() {
		return
	}
	if s.scrollStartPoint == nil {
		return
	}
	s.scrollStartPoint = nil
	s.priceRangeSnapshot = nil
}

func (s *PriceScale) Formatter() chartval.Formatter {
	if s.formatter == nil {
		s.UpdateFormatter()
	}
	return s.formatter
}

func (s *PriceScale) FormatPrice(price, firstValue float64) string {
	switch s.options.Mode {
	case Percentage:
		return percentageFormatter.Format(ToPercent(price, firstValue))
	case IndexedTo100:
		return s.Formatter().Format(ToIndexedTo100(price, firstValue))
	default:
		return s.Formatter().Format(price)
	}
}

func (s *PriceScale) FormatLogical(logical float64) string {
	switch s.options.Mode {
	case Percentage:
		return percentageFormatter.Format(logical)
	default:
		return s.Formatter().Format(logical)
	}
}

// FormatPriceAbsolute uses the formatter of the first source regardless of the mode.
func (s *PriceScale) FormatPriceAbsolute(price float64) string {
	if source := s.formatterSource(); source != nil {
		return source.Formatter().Format(price)
	}
	return defaultPriceFormatter.Format(price)
}

func (s *PriceScale) FormatPricePercentage(price, baseValue float64) string {
	return percentageFormatter.Format(ToPercent(price, baseValue))
}

func (s *PriceScale) formatterSource() DataSource {
	if len(s.dataSources) == 0 {
		return nil
	}
	return s.dataSources[0]
}

// UpdateFormatter picks the formatter and tick base from the first source and the mode.
func (s *PriceScale) UpdateFormatter() {
	s.marksCache = nil
	source := s.formatterSource()
	base := 100
	if source != nil {
		base = int(math.Round(1 / source.MinMove()))
	}
	switch {
	case s.IsPercentage():
		s.formatter = percentageFormatter
		base = 100
	case s.IsIndexedTo100():
		s.formatter = chartval.NewPriceFormatter(100, 1)
		base = 100
	case source != nil:
		s.formatter = source.Formatter()
	default:
		s.formatter = defaultPriceFormatter
	}
	s.markBuilder = newTickMarkBuilder(s, base)
	s.markBuilder.RebuildTickMarks()
}

// RecalculatePriceRange schedules an autoscale for the visible bars.
// The range is computed on the next access.
func (s *PriceScale) RecalculatePriceRange(visibleBars chartval.Range[int]) {
	s.invalidatedForRange = invalidatedRange{visibleBars: &visibleBars, isValid: false}
}

func (s *PriceScale) makeSureItIsValid() {
	if !s.invalidatedForRange.isValid {
		s.invalidatedForRange.isValid = true
		s.recalculatePriceRangeImpl()
	}
}

func (s *PriceScale) recalculatePriceRangeImpl() {
	visibleBars := s.invalidatedForRange.visibleBars
	if visibleBars == nil {
		return
	}
	var rawRange *PriceRange
	marginAbove, marginBelow := 0.0, 0.0
	for _, source := range s.dataSources {
		if !source.Visible() {
			continue
		}
		if _, ok := source.FirstValue(); !ok {
			continue
		}
		info := source.AutoscaleInfo(visibleBars.Left, visibleBars.Right)
		if info == nil || info.PriceRange == nil {
			continue
		}
		rawRange = mergeRanges(rawRange, info.PriceRange)
		if info.Margins != nil {
			marginAbove = max(marginAbove, info.Margins.Above)
			marginBelow = max(marginBelow, info.Margins.Below)
		}
	}
	if marginAbove != s.marginAbove || marginBelow != s.marginBelow {
		s.marginAbove = marginAbove
		s.marginBelow = marginBelow
		s.marksCache = nil
	}

	if rawRange == nil {
		if s.priceRange == nil {
			s.SetPriceRange(&PriceRange{Min: -0.5, Max: 0.5}, false)
			s.logFormula = LogFormulaForPriceRange(nil)
		}
		return
	}
	priceRange := s.toModeSpace(*rawRange)
	if priceRange.Min == priceRange.Max {
		minMove := 1.0
		if source := s.formatterSource(); source != nil && !s.IsPercentage() && !s.IsIndexedTo100() {
			minMove = source.MinMove()
		}
		extendValue := 5 * minMove
		if s.IsLog() {
			priceRange = *ConvertPriceRangeFromLog(&priceRange, s.logFormula)
		}
		priceRange = PriceRange{Min: priceRange.Min - extendValue, Max: priceRange.Max + extendValue}
		if s.IsLog() {
			priceRange = *ConvertPriceRangeToLog(&priceRange, s.logFormula)
		}
	}
	if s.IsLog() {
		raw := ConvertPriceRangeFromLog(&priceRange, s.logFormula)
		newLogFormula := LogFormulaForPriceRange(raw)
		if !logFormulasAreSame(newLogFormula, s.logFormula) {
			var rawSnapshot *PriceRange
			if s.priceRangeSnapshot != nil {
				rawSnapshot = ConvertPriceRangeFromLog(s.priceRangeSnapshot, s.logFormula)
			}
			s.logFormula = newLogFormula
			priceRange = *ConvertPriceRangeToLog(raw, newLogFormula)
			if rawSnapshot != nil {
				s.priceRangeSnapshot = ConvertPriceRangeToLog(rawSnapshot, newLogFormula)
			}
		}
	}
	s.SetPriceRange(&priceRange, false)
}

func (s *PriceScale) toModeSpace(r PriceRange) PriceRange {
	switch s.options.Mode {
	case Logarithmic:
		return *ConvertPriceRangeToLog(&r, s.logFormula)
	case Percentage, IndexedTo100:
		firstValue, _ := s.FirstValue()
		if s.IsPercentage() {
			return ToPercentRange(r, firstValue)
		}
		return ToIndexedTo100Range(r, firstValue)
	}
	return r
}
