// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package timescale

const defaultTickMarkMaxCharacterLength = 8

type Options struct {
	RightOffset   float64 `yaml:"rightOffset"`
	BarSpacing    float64 `yaml:"barSpacing"`
	MinBarSpacing float64 `yaml:"minBarSpacing"`
	// Zero means half of the width.
	MaxBarSpacing                float64 `yaml:"maxBarSpacing"`
	FixLeftEdge                  bool    `yaml:"fixLeftEdge"`
	FixRightEdge                 bool    `yaml:"fixRightEdge"`
	LockVisibleTimeRangeOnResize bool    `yaml:"lockVisibleTimeRangeOnResize"`
	RightBarStaysOnScroll        bool    `yaml:"rightBarStaysOnScroll"`
	BorderVisible                bool    `yaml:"borderVisible"`
	Visible                      bool    `yaml:"visible"`
	ShiftVisibleRangeOnNewBar    bool    `yaml:"shiftVisibleRangeOnNewBar"`
	// Replacing whitespace by a bar shifts the visible range only if this is set.
	AllowShiftVisibleRangeOnWhitespaceReplacement bool    `yaml:"allowShiftVisibleRangeOnWhitespaceReplacement"`
	TicksVisible                                  bool    `yaml:"ticksVisible"`
	UniformDistribution                           bool    `yaml:"uniformDistribution"`
	MinimumHeight                                 float64 `yaml:"minimumHeight"`
	// Zero means 8 characters.
	TickMarkMaxCharacterLength int `yaml:"tickMarkMaxCharacterLength"`
}

func DefaultOptions() Options {
	return Options{
		BarSpacing:                6,
		MinBarSpacing:             0.5,
		BorderVisible:             true,
		Visible:                   true,
		ShiftVisibleRangeOnNewBar: true,
	}
}
