// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"maycharts/chartapi/horzscale"
	"time"
)

// FrameScheduler collects the masks of a chart model until the next frame.
// Masks produced while a frame is applied are kept for the following frame.
type FrameScheduler struct {
	model   *ChartModel
	pending *InvalidateMask
}

// NewFrameScheduler creates a chart model whose invalidations are handled by the scheduler.
func NewFrameScheduler(options Options, behavior horzscale.Behavior) *FrameScheduler {
	f := &FrameScheduler{}
	f.model = NewChartModel(f.invalidate, options, behavior)
	return f
}

func (f *FrameScheduler) Model() *ChartModel {
	return f.model
}

// Pending is true if a frame is needed.
func (f *FrameScheduler) Pending() bool {
	return f.pending != nil
}

func (f *FrameScheduler) invalidate(mask *InvalidateMask) {
	if f.pending == nil {
		f.pending = mask
	} else {
		f.pending.Merge(mask)
	}
}

// Frame applies the pending time scale operations and returns the mask to paint, nil if nothing
// changed. Unfinished animations are scheduled for the next frame.
func (f *FrameScheduler) Frame(now time.Time) *InvalidateMask {
	if f.pending == nil {
		return nil
	}
	mask := f.pending
	f.pending = nil

	f.applyTimeScaleInvalidations(mask, now)
	f.applyMomentaryAutoScale(mask)

	for _, invalidation := range mask.TimeScaleInvalidations() {
		if invalidation.Type == TimeScaleAnimation && !invalidation.Animation.Finished(now) {
			f.model.SetTimeScaleAnimation(invalidation.Animation)
			break
		}
	}
	return mask
}

func (f *FrameScheduler) applyMomentaryAutoScale(mask *InvalidateMask) {
	for i, pane := range f.model.Panes() {
		if mask.InvalidateForPane(i).AutoScale {
			pane.MomentaryAutoScale()
		}
	}
}

func (f *FrameScheduler) applyTimeScaleInvalidations(mask *InvalidateMask, now time.Time) {
	timeScale := f.model.TimeScale()
	for _, invalidation := range mask.TimeScaleInvalidations() {
		switch invalidation.Type {
		case TimeScaleFitContent:
			timeScale.FitContent()
		case TimeScaleApplyRange:
			timeScale.SetLogicalRange(invalidation.Range)
		case TimeScaleApplyBarSpacing:
			timeScale.SetBarSpacing(invalidation.Value)
		case TimeScaleApplyRightOffset:
			timeScale.SetRightOffset(invalidation.Value)
		case TimeScaleReset:
			timeScale.RestoreDefault()
		case TimeScaleAnimation:
			// A finished animation still moves to its final position.
			timeScale.SetRightOffset(invalidation.Animation.Position(now))
		}
	}
}
