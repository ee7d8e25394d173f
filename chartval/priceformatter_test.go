// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceFormatter(t *testing.T) {
	f := NewPriceFormatter(100, 1)
	assert.Equal(t, "12.34", f.Format(12.34))
	assert.Equal(t, "0.01", f.Format(0.005))
	assert.Equal(t, "1.00", f.Format(0.999))
	assert.Equal(t, "−5.50", f.Format(-5.5))
	assert.Equal(t, "n/a", f.Format(math.NaN()))
}

func TestPriceFormatterMinMove(t *testing.T) {
	// Steps of 0.05
	f := NewPriceFormatterForPrecision(2, 0.05)
	assert.Equal(t, "10.05", f.Format(10.04))
	assert.Equal(t, "10.00", f.Format(10.01))
	// Steps of 5, no digits after the decimal point for integer scales.
	f = NewPriceFormatter(1, 5)
	assert.Equal(t, "10", f.Format(12))
}

func TestPercentageFormatter(t *testing.T) {
	f := NewPercentageFormatter()
	assert.Equal(t, "12.50%", f.Format(12.5))
	assert.Equal(t, "−3.00%", f.Format(-3))
}

func TestVolumeFormatter(t *testing.T) {
	f := NewVolumeFormatter(2)
	assert.Equal(t, "994", f.Format(994))
	assert.Equal(t, "1.5K", f.Format(1500))
	assert.Equal(t, "2.35M", f.Format(2345678))
	assert.Equal(t, "7B", f.Format(7000000000))
	assert.Equal(t, "-12K", f.Format(-12000))
}
