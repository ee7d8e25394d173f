// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartmodel

import (
	"maycharts/chartval"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testAnimation struct {
	end      time.Time
	position float64
}

func (a *testAnimation) Finished(now time.Time) bool {
	return !now.Before(a.end)
}

func (a *testAnimation) Position(now time.Time) float64 {
	return a.position
}

func invalidationTypes(m *InvalidateMask) []TimeScaleInvalidationType {
	var result []TimeScaleInvalidationType
	for _, i := range m.TimeScaleInvalidations() {
		result = append(result, i.Type)
	}
	return result
}

func TestInvalidateMaskLevels(t *testing.T) {
	a := Light()
	a.InvalidatePane(0, PaneInvalidation{Level: InvalidationCursor})
	assert.Equal(t, PaneInvalidation{Level: InvalidationLight}, a.InvalidateForPane(0))
	assert.Equal(t, PaneInvalidation{Level: InvalidationLight}, a.InvalidateForPane(3))

	b := NewInvalidateMask(InvalidationCursor)
	b.InvalidatePane(0, PaneInvalidation{Level: InvalidationFull, AutoScale: true})
	b.InvalidatePane(1, PaneInvalidation{Level: InvalidationNone, AutoScale: true})

	a.Merge(b)
	assert.Equal(t, InvalidationLight, a.FullInvalidation())
	assert.Equal(t, PaneInvalidation{Level: InvalidationFull, AutoScale: true}, a.InvalidateForPane(0))
	assert.Equal(t, PaneInvalidation{Level: InvalidationLight, AutoScale: true}, a.InvalidateForPane(1))

	a.Merge(Full())
	assert.Equal(t, InvalidationFull, a.FullInvalidation())
	assert.Equal(t, InvalidationFull, a.InvalidateForPane(1).Level)
}

func TestInvalidateMaskTimeScaleOperations(t *testing.T) {
	m := Light()
	m.SetBarSpacing(5)
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleStopAnimation, TimeScaleApplyBarSpacing}, invalidationTypes(m))

	m.SetTimeScaleAnimation(&testAnimation{})
	m.SetTimeScaleAnimation(&testAnimation{position: 2})
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleStopAnimation, TimeScaleApplyBarSpacing, TimeScaleAnimation}, invalidationTypes(m))
	assert.Equal(t, 2.0, m.TimeScaleInvalidations()[2].Animation.Position(time.Time{}))

	// Any other operation cancels the animation.
	m.SetRightOffset(3)
	assert.Equal(t, []TimeScaleInvalidationType{
		TimeScaleStopAnimation, TimeScaleApplyBarSpacing, TimeScaleStopAnimation, TimeScaleApplyRightOffset,
	}, invalidationTypes(m))

	m.SetFitContent()
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleFitContent}, invalidationTypes(m))

	m.ApplyRange(chartval.NewRange(1.0, 5.0))
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleApplyRange}, invalidationTypes(m))
	assert.Equal(t, chartval.NewRange(1.0, 5.0), m.TimeScaleInvalidations()[0].Range)

	m.ResetTimeScale()
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleReset}, invalidationTypes(m))
}

func TestInvalidateMaskMergeReplaysOperations(t *testing.T) {
	a := Light()
	a.SetFitContent()
	b := Light()
	b.SetBarSpacing(7)
	a.Merge(b)
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleFitContent, TimeScaleStopAnimation, TimeScaleApplyBarSpacing}, invalidationTypes(a))
	assert.Equal(t, 7.0, a.TimeScaleInvalidations()[2].Value)

	animated := Light()
	animated.SetTimeScaleAnimation(&testAnimation{})
	a.Merge(animated)
	assert.Equal(t, TimeScaleAnimation, a.TimeScaleInvalidations()[len(a.TimeScaleInvalidations())-1].Type)

	stopped := Light()
	stopped.StopTimeScaleAnimation()
	a.Merge(stopped)
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleFitContent, TimeScaleStopAnimation, TimeScaleApplyBarSpacing}, invalidationTypes(a))

	reset := Light()
	reset.ResetTimeScale()
	a.Merge(reset)
	assert.Equal(t, []TimeScaleInvalidationType{TimeScaleReset}, invalidationTypes(a))
}
