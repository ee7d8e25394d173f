// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"maycharts/chartapi"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBankHoliday2023(t *testing.T) {
	c := NewUSBankCalendar()
	holidays := []struct {
		month    time.Month
		day      int
		observed bool
	}{
		{time.January, 1, false},
		{time.January, 2, true},
		{time.January, 16, false},
		{time.February, 20, false},
		{time.May, 29, false},
		{time.June, 19, false},
		{time.July, 4, false},
		{time.September, 4, false},
		{time.October, 9, false},
		{time.November, 10, true},
		{time.November, 11, false},
		{time.November, 23, false},
		{time.December, 25, false},
	}
	for _, h := range holidays {
		isHoliday, name := c.IsBankHoliday(time.Date(2023, h.month, h.day, 0, 0, 0, 0, c.Location()))
		assert.True(t, isHoliday, "%v %d", h.month, h.day)
		assert.Equal(t, h.observed, strings.HasSuffix(name, observedHolidayPostfix), name)
	}
	isHoliday, name := c.IsBankHoliday(time.Date(2023, 8, 9, 0, 0, 0, 0, c.Location()))
	assert.False(t, isHoliday)
	assert.Empty(t, name)
}

func TestIsTradingDay(t *testing.T) {
	c := NewUSBankCalendar()
	days := []struct {
		date             time.Time
		trading, partial bool
	}{
		{time.Date(2023, 7, 3, 12, 0, 0, 0, time.UTC), true, true},
		{time.Date(2023, 11, 24, 12, 0, 0, 0, time.UTC), true, true},
		// Christmas eve on Sunday and Saturday.
		{time.Date(2023, 12, 24, 12, 0, 0, 0, time.UTC), false, false},
		{time.Date(2022, 12, 24, 12, 0, 0, 0, time.UTC), false, false},
		// Friday, but the observed holiday.
		{time.Date(2021, 12, 24, 12, 0, 0, 0, time.UTC), false, false},
		{time.Date(2020, 12, 24, 12, 0, 0, 0, time.UTC), true, true},
		{time.Date(2023, 8, 5, 12, 0, 0, 0, time.UTC), false, false},
		{time.Date(2023, 8, 6, 12, 0, 0, 0, time.UTC), false, false},
		{time.Date(2023, 8, 7, 12, 0, 0, 0, time.UTC), true, false},
		{time.Date(2023, 8, 11, 12, 0, 0, 0, time.UTC), true, false},
	}
	for _, d := range days {
		trading, partial := c.IsTradingDay(d.date)
		assert.Equal(t, d.trading, trading, d.date.String())
		assert.Equal(t, d.partial, partial, d.date.String())
	}
}

func TestTradingHours(t *testing.T) {
	c := NewUSBankCalendar()
	loc := c.Location()
	h, ok := c.TradingHours(time.Date(2023, 8, 9, 0, 0, 0, 0, loc))
	require.True(t, ok)
	assert.False(t, h.Partial)
	assert.True(t, h.Open.Equal(time.Date(2023, 8, 9, 9, 30, 0, 0, loc)))
	assert.True(t, h.Close.Equal(time.Date(2023, 8, 9, 16, 0, 0, 0, loc)))
	assert.True(t, h.Contains(h.Open))
	assert.False(t, h.Contains(h.Close))

	h, ok = c.TradingHours(time.Date(2023, 7, 3, 0, 0, 0, 0, loc))
	require.True(t, ok)
	assert.True(t, h.Partial)
	assert.True(t, h.Close.Equal(time.Date(2023, 7, 3, 13, 0, 0, 0, loc)))

	_, ok = c.TradingHours(time.Date(2023, 8, 5, 0, 0, 0, 0, loc))
	assert.False(t, ok)
}

func unixDay(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}

func TestFutureDailyWhitespace(t *testing.T) {
	c := NewUSBankCalendar()
	// Friday before independence day.
	items := c.FutureDailyWhitespace(time.Date(2023, 6, 30, 20, 0, 0, 0, c.Location()), 4)
	assert.Equal(t, []chartapi.DataItem{
		chartapi.WhitespaceData{Time: unixDay(2023, 7, 3)},
		chartapi.WhitespaceData{Time: unixDay(2023, 7, 5)},
		chartapi.WhitespaceData{Time: unixDay(2023, 7, 6)},
		chartapi.WhitespaceData{Time: unixDay(2023, 7, 7)},
	}, items)
	for _, item := range items {
		assert.True(t, item.IsWhitespace())
	}
}

func TestFutureIntradayWhitespace(t *testing.T) {
	c := NewUSBankCalendar()
	loc := c.Location()
	items := c.FutureIntradayWhitespace(time.Date(2023, 8, 11, 15, 0, 0, 0, loc), 30*time.Minute, 3)
	assert.Equal(t, []chartapi.DataItem{
		chartapi.WhitespaceData{Time: time.Date(2023, 8, 11, 15, 30, 0, 0, loc).Unix()},
		chartapi.WhitespaceData{Time: time.Date(2023, 8, 14, 9, 30, 0, 0, loc).Unix()},
		chartapi.WhitespaceData{Time: time.Date(2023, 8, 14, 10, 0, 0, 0, loc).Unix()},
	}, items)

	items = c.FutureIntradayWhitespace(time.Date(2023, 8, 14, 6, 0, 0, 0, loc), time.Hour, 1)
	assert.Equal(t, []chartapi.DataItem{
		chartapi.WhitespaceData{Time: time.Date(2023, 8, 14, 9, 30, 0, 0, loc).Unix()},
	}, items)

	assert.Panics(t, func() { c.FutureIntradayWhitespace(time.Now(), 0, 1) })
}
