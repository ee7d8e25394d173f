// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package timescale

import "time"

const DefaultAnimationDuration = 400 * time.Millisecond

// TimeAnimation provides the right offset of the time scale while animating.
type TimeAnimation interface {
	Finished(now time.Time) bool
	Position(now time.Time) float64
}

// offsetAnimation moves the right offset linearly to a target.
type offsetAnimation struct {
	start    time.Time
	duration time.Duration
	source   float64
	target   float64
}

func (a *offsetAnimation) Finished(now time.Time) bool {
	return now.Sub(a.start) >= a.duration
}

func (a *offsetAnimation) Position(now time.Time) float64 {
	progress := float64(now.Sub(a.start)) / float64(a.duration)
	if progress >= 1 {
		return a.target
	}
	return a.source + (a.target-a.source)*progress
}

// kineticScroll converts kinetic pixel positions into right offsets.
type kineticScroll struct {
	kinetic     *KineticAnimation
	startOffset float64
	startX      float64
	barSpacing  float64
}

func (a *kineticScroll) Finished(now time.Time) bool {
	return a.kinetic.Finished(now)
}

func (a *kineticScroll) Position(now time.Time) float64 {
	return a.startOffset + (a.startX-a.kinetic.Position(now))/a.barSpacing
}
