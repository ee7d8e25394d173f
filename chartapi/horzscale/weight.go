// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package horzscale

// TickMarkWeight is the granularity class of a time scale point.
// Higher weights are preferred when thinning labels.
type TickMarkWeight int

const (
	WeightLessThanSecond TickMarkWeight = 0
	WeightSecond         TickMarkWeight = 10
	WeightMinute1        TickMarkWeight = 20
	WeightMinute5        TickMarkWeight = 21
	WeightMinute30       TickMarkWeight = 22
	WeightHour1          TickMarkWeight = 30
	WeightHour3          TickMarkWeight = 31
	WeightHour6          TickMarkWeight = 32
	WeightHour12         TickMarkWeight = 33
	WeightDay            TickMarkWeight = 50
	WeightMonth          TickMarkWeight = 60
	WeightYear           TickMarkWeight = 70
)

type TickMarkType int

const (
	TickMarkYear TickMarkType = iota
	TickMarkMonth
	TickMarkDayOfMonth
	TickMarkTime
	TickMarkTimeWithSeconds
)

// Layout returns the time format layout for a tick mark type.
func (t TickMarkType) Layout() string {
	switch t {
	case TickMarkYear:
		return "2006"
	case TickMarkMonth:
		return "Jan"
	case TickMarkDayOfMonth:
		return "2"
	case TickMarkTime:
		return "15:04"
	case TickMarkTimeWithSeconds:
		return "15:04:05"
	default:
		panic("unsupported tick mark type")
	}
}

func WeightToTickMarkType(weight TickMarkWeight, timeVisible bool, secondsVisible bool) TickMarkType {
	switch {
	case weight < WeightMinute1:
		if !timeVisible {
			return TickMarkDayOfMonth
		}
		if secondsVisible {
			return TickMarkTimeWithSeconds
		}
		return TickMarkTime
	case weight < WeightDay:
		if timeVisible {
			return TickMarkTime
		}
		return TickMarkDayOfMonth
	case weight < WeightMonth:
		return TickMarkDayOfMonth
	case weight < WeightYear:
		return TickMarkMonth
	default:
		return TickMarkYear
	}
}
