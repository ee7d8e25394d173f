// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"maycharts/chartval"
	"maycharts/timescale"

	"golang.org/x/exp/slices"
)

type InvalidationLevel int

const (
	InvalidationNone InvalidationLevel = iota
	InvalidationCursor
	InvalidationLight
	InvalidationFull
)

type PaneInvalidation struct {
	Level     InvalidationLevel
	AutoScale bool
}

func mergePaneInvalidation(a, b PaneInvalidation) PaneInvalidation {
	return PaneInvalidation{Level: max(a.Level, b.Level), AutoScale: a.AutoScale || b.AutoScale}
}

type TimeScaleInvalidationType int

const (
	TimeScaleFitContent TimeScaleInvalidationType = iota
	TimeScaleApplyRange
	TimeScaleApplyBarSpacing
	TimeScaleApplyRightOffset
	TimeScaleReset
	TimeScaleAnimation
	TimeScaleStopAnimation
)

// TimeScaleInvalidation is a deferred time scale operation, applied with the next frame.
type TimeScaleInvalidation struct {
	Type TimeScaleInvalidationType
	// ApplyRange only.
	Range chartval.Range[float64]
	// Bar spacing or right offset.
	Value float64
	// Animation only.
	Animation timescale.TimeAnimation
}

// InvalidateMask describes what needs to be redrawn, and which time scale operations are pending.
type InvalidateMask struct {
	globalLevel            InvalidationLevel
	invalidatedPanes       map[int]PaneInvalidation
	timeScaleInvalidations []TimeScaleInvalidation
}

func NewInvalidateMask(globalLevel InvalidationLevel) *InvalidateMask {
	return &InvalidateMask{globalLevel: globalLevel, invalidatedPanes: make(map[int]PaneInvalidation)}
}

func Light() *InvalidateMask {
	return NewInvalidateMask(InvalidationLight)
}

func Full() *InvalidateMask {
	return NewInvalidateMask(InvalidationFull)
}

func (m *InvalidateMask) InvalidatePane(paneIndex int, invalidation PaneInvalidation) {
	m.invalidatedPanes[paneIndex] = mergePaneInvalidation(m.invalidatedPanes[paneIndex], invalidation)
}

func (m *InvalidateMask) FullInvalidation() InvalidationLevel {
	return m.globalLevel
}

// InvalidateForPane combines the global level and the invalidation of a single pane.
func (m *InvalidateMask) InvalidateForPane(paneIndex int) PaneInvalidation {
	invalidation, ok := m.invalidatedPanes[paneIndex]
	if !ok {
		return PaneInvalidation{Level: m.globalLevel}
	}
	return PaneInvalidation{Level: max(m.globalLevel, invalidation.Level), AutoScale: invalidation.AutoScale}
}

func (m *InvalidateMask) SetFitContent() {
	m.StopTimeScaleAnimation()
	m.timeScaleInvalidations = []TimeScaleInvalidation{{Type: TimeScaleFitContent}}
}

func (m *InvalidateMask) ApplyRange(r chartval.Range[float64]) {
	m.StopTimeScaleAnimation()
	m.timeScaleInvalidations = []TimeScaleInvalidation{{Type: TimeScaleApplyRange, Range: r}}
}

func (m *InvalidateMask) ResetTimeScale() {
	m.StopTimeScaleAnimation()
	m.timeScaleInvalidations = []TimeScaleInvalidation{{Type: TimeScaleReset}}
}

func (m *InvalidateMask) SetBarSpacing(spacing float64) {
	m.StopTimeScaleAnimation()
	m.timeScaleInvalidations = append(m.timeScaleInvalidations, TimeScaleInvalidation{Type: TimeScaleApplyBarSpacing, Value: spacing})
}

func (m *InvalidateMask) SetRightOffset(offset float64) {
	m.StopTimeScaleAnimation()
	m.timeScaleInvalidations = append(m.timeScaleInvalidations, TimeScaleInvalidation{Type: TimeScaleApplyRightOffset, Value: offset})
}

// SetTimeScaleAnimation replaces a pending animation.
func (m *InvalidateMask) SetTimeScaleAnimation(animation timescale.TimeAnimation) {
	m.removeTimeScaleAnimation()
	m.timeScaleInvalidations = append(m.timeScaleInvalidations, TimeScaleInvalidation{Type: TimeScaleAnimation, Animation: animation})
}

func (m *InvalidateMask) StopTimeScaleAnimation() {
	m.removeTimeScaleAnimation()
	m.timeScaleInvalidations = append(m.timeScaleInvalidations, TimeScaleInvalidation{Type: TimeScaleStopAnimation})
}

func (m *InvalidateMask) TimeScaleInvalidations() []TimeScaleInvalidation {
	return m.timeScaleInvalidations
}

// Merge adds the invalidations of other, its time scale operations are replayed in order.
func (m *InvalidateMask) Merge(other *InvalidateMask) {
	for _, invalidation := range other.timeScaleInvalidations {
		m.applyTimeScaleInvalidation(invalidation)
	}
	m.globalLevel = max(m.globalLevel, other.globalLevel)
	for paneIndex, invalidation := range other.invalidatedPanes {
		m.InvalidatePane(paneIndex, invalidation)
	}
}

func (m *InvalidateMask) applyTimeScaleInvalidation(invalidation TimeScaleInvalidation) {
	switch invalidation.Type {
	case TimeScaleFitContent:
		m.SetFitContent()
	case TimeScaleApplyRange:
		m.ApplyRange(invalidation.Range)
	case TimeScaleApplyBarSpacing:
		m.SetBarSpacing(invalidation.Value)
	case TimeScaleApplyRightOffset:
		m.SetRightOffset(invalidation.Value)
	case TimeScaleReset:
		m.ResetTimeScale()
	case TimeScaleAnimation:
		m.SetTimeScaleAnimation(invalidation.Animation)
	case TimeScaleStopAnimation:
		m.removeTimeScaleAnimation()
	}
}

func (m *InvalidateMask) removeTimeScaleAnimation() {
	index := slices.IndexFunc(m.timeScaleInvalidations, func(i TimeScaleInvalidation) bool {
		return i.Type == TimeScaleAnimation
	})
	if index != -1 {
		m.timeScaleInvalidations = slices.Delete(m.timeScaleInvalidations, index, index+1)
	}
}
