// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 1, 5))
	assert.Equal(t, 1, Clamp(-3, 1, 5))
	assert.InDelta(t, 2.5, Clamp(2.5, 1.0, 5.0), NearZero)
}

func TestIsBaseDecimal(t *testing.T) {
	assert.True(t, IsBaseDecimal(1))
	assert.True(t, IsBaseDecimal(100))
	assert.False(t, IsBaseDecimal(20))
	assert.False(t, IsBaseDecimal(-10))
}

func TestRoundHalfAway(t *testing.T) {
	assert.Equal(t, 3.0, RoundHalfAway(2.5))
	assert.Equal(t, -3.0, RoundHalfAway(-2.5))
	assert.Equal(t, 1234.0, RoundHalfAway(12.34*100))
}

func TestBounds(t *testing.T) {
	s := []int{1, 3, 3, 5, 8}
	less := func(a, b int) bool { return a < b }
	assert.Equal(t, 1, LowerBound(s, 3, less))
	assert.Equal(t, 3, UpperBound(s, 3, less))
	assert.Equal(t, 0, LowerBound(s, 0, less))
	assert.Equal(t, 5, LowerBound(s, 9, less))
	assert.Equal(t, 5, UpperBound(s, 8, less))
}

func TestRange(t *testing.T) {
	r := NewRange(2, 6)
	assert.Equal(t, 5, r.Count())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(7))
	assert.Panics(t, func() { NewRange(3.0, 1.0) })
	assert.True(t, RangesEqual[int](nil, nil))
	assert.False(t, RangesEqual(&r, nil))
}

type delegateOwner struct{}

func TestDelegate(t *testing.T) {
	var d Delegate[int]
	owner := &delegateOwner{}
	var regular, single, owned int
	d.Subscribe(func(v int) { regular += v }, nil, false)
	d.Subscribe(func(v int) { single += v }, nil, true)
	d.Subscribe(func(v int) { owned += v }, owner, false)

	d.Fire(2)
	d.Fire(3)
	assert.Equal(t, 5, regular)
	assert.Equal(t, 2, single)
	assert.Equal(t, 5, owned)

	d.UnsubscribeAll(owner)
	d.Fire(1)
	assert.Equal(t, 6, regular)
	assert.Equal(t, 5, owned)
}

func TestDelegateUnsubscribe(t *testing.T) {
	var d Delegate[string]
	calls := 0
	id := d.Subscribe(func(string) { calls++ }, nil, false)
	d.Fire("a")
	d.Unsubscribe(id)
	d.Fire("b")
	assert.Equal(t, 1, calls)
	assert.False(t, d.HasListeners())
}
