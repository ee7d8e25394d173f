// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package pricescale

import "fmt"

type Mode int

const (
	Normal Mode = iota
	Logarithmic
	Percentage
	IndexedTo100
)

var modeNames = []string{"normal", "logarithmic", "percentage", "indexedTo100"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid price scale mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for i, name := range modeNames {
		if name == string(text) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown price scale mode %q", string(text))
}

type ScaleMargins struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

type Options struct {
	Mode           Mode         `yaml:"mode"`
	AutoScale      bool         `yaml:"autoScale"`
	InvertScale    bool         `yaml:"invertScale"`
	AlignLabels    bool         `yaml:"alignLabels"`
	ScaleMargins   ScaleMargins `yaml:"scaleMargins"`
	BorderVisible  bool         `yaml:"borderVisible"`
	EntireTextOnly bool         `yaml:"entireTextOnly"`
	Visible        bool         `yaml:"visible"`
	TicksVisible   bool         `yaml:"ticksVisible"`
	MinimumWidth   float64      `yaml:"minimumWidth"`
}

func DefaultOptions() Options {
	return Options{
		Mode:          Normal,
		AutoScale:     true,
		AlignLabels:   true,
		ScaleMargins:  ScaleMargins{Top: 0.2, Bottom: 0.1},
		BorderVisible: true,
		Visible:       true,
	}
}

// Valid is false for margins outside of [0, 1] or if their sum exceeds 1.
func (m ScaleMargins) Valid() bool {
	return m.Top >= 0 && m.Top <= 1 && m.Bottom >= 0 && m.Bottom <= 1 && m.Top+m.Bottom <= 1
}

func validateMargins(m ScaleMargins) {
	if m.Top < 0 || m.Top > 1 {
		panic(fmt.Sprintf("invalid top margin %v - expect value between 0 and 1", m.Top))
	}
	if m.Bottom < 0 || m.Bottom > 1 {
		panic(fmt.Sprintf("invalid bottom margin %v - expect value between 0 and 1", m.Bottom))
	}
	if m.Top+m.Bottom > 1 {
		panic(fmt.Sprintf("invalid margins - sum of margins must be less than 1, given %v", m.Top+m.Bottom))
	}
}

// State is the part of the options which can be changed interactively.
type State struct {
	AutoScale  bool
	IsInverted bool
	Mode       Mode
}

// StateUpdate changes the non-nil fields of a State.
type StateUpdate struct {
	AutoScale  *bool
	IsInverted *bool
	Mode       *Mode
}

type StateChange struct {
	Old State
	New State
}
