// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"maycharts/chartapi"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const observedHolidayPostfix = "(observed)"

// Upper bound of calendar days searched for the next trading day.
const maxNonTradingDays = 10

type BankCalendar struct {
	bankLocation     *time.Location
	calendar         *cal.BusinessCalendar
	stdOpenTime      bankTime
	stdCloseTime     bankTime
	partialCloseTime bankTime
}

type bankTime struct {
	hours   int
	minutes int
}

func NewUSBankCalendar() BankCalendar {
	// Daylight saving time changes do not occur during market hours.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("NYSE time location not supported")
	}
	c := cal.NewBusinessCalendar()
	// https://www.federalreserve.gov/aboutthefed/k8.htm
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	c.Cacheable = true
	return BankCalendar{
		calendar:         c,
		bankLocation:     loc,
		stdOpenTime:      bankTime{hours: 9, minutes: 30},
		stdCloseTime:     bankTime{hours: 16, minutes: 0},
		partialCloseTime: bankTime{hours: 13, minutes: 0},
	}
}

func (b BankCalendar) Location() *time.Location {
	return b.bankLocation
}

func (b BankCalendar) IsBankHoliday(t time.Time) (bool, string) {
	actual, observed, h := b.calendar.IsHoliday(t.In(b.bankLocation))
	switch {
	case !actual && !observed:
		return false, ""
	case !actual:
		return true, h.Name + " " + observedHolidayPostfix
	default:
		return true, h.Name
	}
}

// IsTradingDay reports partial trading days before independence day, christmas and after thanksgiving.
func (b BankCalendar) IsTradingDay(t time.Time) (trading bool, partial bool) {
	day := t.In(b.bankLocation)
	if !b.calendar.IsWorkday(day) {
		return false, false
	}
	if holiday, name := b.IsBankHoliday(day.AddDate(0, 0, 1)); holiday &&
		(name == us.IndependenceDay.Name || name == us.ChristmasDay.Name) {
		return true, true
	}
	holiday, name := b.IsBankHoliday(day.AddDate(0, 0, -1))
	return true, holiday && name == us.ThanksgivingDay.Name
}

// TradingHours returns the regular session of the day of t.
func (b BankCalendar) TradingHours(t time.Time) (TradingHours, bool) {
	day := t.In(b.bankLocation)
	trading, partial := b.IsTradingDay(day)
	if !trading {
		return TradingHours{}, false
	}
	y, m, d := day.Date()
	closeTime := b.stdCloseTime
	if partial {
		closeTime = b.partialCloseTime
	}
	return TradingHours{
		Open:    time.Date(y, m, d, b.stdOpenTime.hours, b.stdOpenTime.minutes, 0, 0, b.bankLocation),
		Close:   time.Date(y, m, d, closeTime.hours, closeTime.minutes, 0, 0, b.bankLocation),
		Partial: partial,
	}, true
}

// NextTradingDay returns the first trading day after the day of t, at midnight in the bank location.
func (b BankCalendar) NextTradingDay(t time.Time) time.Time {
	y, m, d := t.In(b.bankLocation).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, b.bankLocation)
	for i := 0; i < maxNonTradingDays; i++ {
		day = day.AddDate(0, 0, 1)
		if trading, _ := b.IsTradingDay(day); trading {
			return day
		}
	}
	panic("no trading day found")
}

// FutureDailyWhitespace returns count whitespace items for the trading days after the date of last,
// taken in the location of last. Times are unix seconds at UTC midnight, the format of daily bars.
func (b BankCalendar) FutureDailyWhitespace(last time.Time, count int) []chartapi.DataItem {
	result := make([]chartapi.DataItem, 0, count)
	y, m, d := last.Date()
	day := time.Date(y, m, d, 12, 0, 0, 0, b.bankLocation)
	for len(result) < count {
		day = b.NextTradingDay(day)
		y, m, d := day.Date()
		result = append(result, chartapi.WhitespaceData{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()})
	}
	return result
}

// FutureIntradayWhitespace returns count whitespace items with the given step after last,
// skipping times outside of regular trading hours.
func (b BankCalendar) FutureIntradayWhitespace(last time.Time, step time.Duration, count int) []chartapi.DataItem {
	if step <= 0 {
		panic("step must be positive")
	}
	result := make([]chartapi.DataItem, 0, count)
	t := last.In(b.bankLocation)
	for len(result) < count {
		t = t.Add(step)
		hours, ok := b.TradingHours(t)
		switch {
		case ok && hours.Contains(t):
		case ok && t.Before(hours.Open):
			t = hours.Open
		default:
			next, _ := b.TradingHours(b.NextTradingDay(t))
			t = next.Open
		}
		result = append(result, chartapi.WhitespaceData{Time: t.Unix()})
	}
	return result
}
