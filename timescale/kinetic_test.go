// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package timescale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func kineticAt(positions ...float64) *KineticAnimation {
	k := NewDefaultKineticAnimation()
	for i, p := range positions {
		k.AddPosition(p, testStart.Add(time.Duration(i)*10*time.Millisecond))
	}
	return k
}

func TestKineticAnimation(t *testing.T) {
	k := kineticAt(0, 20, 40, 60)
	start := testStart.Add(35 * time.Millisecond)
	k.Start(60, start)
	assert.False(t, k.Finished(start))
	assert.Equal(t, 60.0, k.Position(start))
	p1 := k.Position(start.Add(100 * time.Millisecond))
	p2 := k.Position(start.Add(200 * time.Millisecond))
	assert.Greater(t, p1, 60.0)
	assert.Greater(t, p2, p1)
	// Speed decreases.
	assert.Less(t, p2-p1, p1-60)
	assert.True(t, k.Finished(start.Add(5*time.Second)))
	final := k.Position(start.Add(5 * time.Second))
	assert.Equal(t, final, k.Position(start.Add(10*time.Second)))
}

func TestKineticAnimationOppositeSegment(t *testing.T) {
	start := testStart.Add(35 * time.Millisecond)
	same := kineticAt(0, 20, 40, 60)
	same.Start(60, start)
	// The oldest segment moves backwards and is ignored.
	opposite := kineticAt(80, 20, 40, 60)
	opposite.Start(60, start)
	later := start.Add(time.Second)
	assert.InDelta(t, same.Position(later), opposite.Position(later), 1e-9)
}

func TestKineticAnimationNotStarted(t *testing.T) {
	k := kineticAt(0, 20, 40, 60)
	k.Start(60, testStart.Add(200*time.Millisecond))
	assert.True(t, k.Finished(testStart))

	// Too slow.
	k = NewDefaultKineticAnimation()
	k.AddPosition(0, testStart)
	k.AddPosition(20, testStart.Add(time.Second))
	k.Start(20, testStart.Add(time.Second))
	assert.True(t, k.Finished(testStart.Add(time.Second)))

	// Small moves are ignored.
	k = NewDefaultKineticAnimation()
	k.AddPosition(0, testStart)
	k.AddPosition(5, testStart.Add(10*time.Millisecond))
	k.Start(5, testStart.Add(20*time.Millisecond))
	assert.True(t, k.Finished(testStart))
}
