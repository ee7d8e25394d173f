// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package timescale

import (
	"math"
	"maycharts/chartval"
	"time"
)

// Defaults for kinetic scrolling of the time scale.
const (
	KineticMinScrollSpeed = 0.2
	KineticMaxScrollSpeed = 7
	KineticDumping        = 0.997
	KineticScrollMinMove  = 15
)

const (
	kineticMaxStartDelay    = 50 * time.Millisecond
	kineticEpsilonDistance  = 1
	kineticPositionsToTrack = 4
)

type kineticPosition struct {
	position float64
	time     time.Time
}

// KineticAnimation continues a scroll gesture with decreasing speed.
// Speeds are in pixels per millisecond.
type KineticAnimation struct {
	// Most recent first.
	positions []kineticPosition

	startPosition *kineticPosition
	duration      float64
	speed         float64

	minSpeed     float64
	maxSpeed     float64
	dumpingCoeff float64
	minMove      float64
}

func NewKineticAnimation(minSpeed, maxSpeed, dumpingCoeff, minMove float64) *KineticAnimation {
	return &KineticAnimation{
		minSpeed:     minSpeed,
		maxSpeed:     maxSpeed,
		dumpingCoeff: dumpingCoeff,
		minMove:      minMove,
	}
}

func NewDefaultKineticAnimation() *KineticAnimation {
	return NewKineticAnimation(KineticMinScrollSpeed, KineticMaxScrollSpeed, KineticDumping, KineticScrollMinMove)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (a *KineticAnimation) AddPosition(position float64, t time.Time) {
	if len(a.positions) > 0 {
		last := &a.positions[0]
		if last.time.Equal(t) {
			last.position = position
			return
		}
		if math.Abs(last.position-position) < a.minMove {
			return
		}
	}
	a.positions = append([]kineticPosition{{position: position, time: t}}, a.positions...)
	if len(a.positions) > kineticPositionsToTrack {
		a.positions = a.positions[:kineticPositionsToTrack]
	}
}

func (a *KineticAnimation) speedBetween(p1, p2 kineticPosition) float64 {
	speed := (p1.position - p2.position) / milliseconds(p1.time.Sub(p2.time))
	return chartval.Sign(speed) * math.Min(math.Abs(speed), a.maxSpeed)
}

// Start computes a weighted average speed of the last segments. Segments with a direction
// opposite to the last one end the average. Too slow or too late starts are ignored.
func (a *KineticAnimation) Start(position float64, t time.Time) {
	if len(a.positions) < 2 {
		return
	}
	if t.Sub(a.positions[0].time) > kineticMaxStartDelay {
		return
	}
	speed1 := a.speedBetween(a.positions[0], a.positions[1])
	var speeds, distances []float64
	totalDistance := 0.0
	for i := 0; i+1 < len(a.positions); i++ {
		speed := a.speedBetween(a.positions[i], a.positions[i+1])
		if chartval.Sign(speed) != chartval.Sign(speed1) {
			break
		}
		dist := a.positions[i].position - a.positions[i+1].position
		speeds = append(speeds, speed)
		distances = append(distances, dist)
		totalDistance += dist
	}
	if totalDistance == 0 {
		return
	}
	resultSpeed := 0.0
	for i := range speeds {
		resultSpeed += distances[i] / totalDistance * speeds[i]
	}
	if math.Abs(resultSpeed) < a.minSpeed {
		return
	}
	a.startPosition = &kineticPosition{position: position, time: t}
	a.speed = resultSpeed
	lnDumpingCoeff := math.Log(a.dumpingCoeff)
	a.duration = math.Log(kineticEpsilonDistance*lnDumpingCoeff/-math.Abs(resultSpeed)) / lnDumpingCoeff
}

func (a *KineticAnimation) progressDuration(t time.Time) float64 {
	return math.Min(milliseconds(t.Sub(a.startPosition.time)), a.duration)
}

// Position of the animation at t. Only valid after a successful Start.
func (a *KineticAnimation) Position(t time.Time) float64 {
	d := a.progressDuration(t)
	return a.startPosition.position + a.speed*(math.Pow(a.dumpingCoeff, d)-1)/math.Log(a.dumpingCoeff)
}

func (a *KineticAnimation) Finished(t time.Time) bool {
	return a.startPosition == nil || a.progressDuration(t) == a.duration
}
