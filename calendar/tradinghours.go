// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import "time"

// TradingHours is the regular session of a trading day.
type TradingHours struct {
	Open    time.Time
	Close   time.Time
	Partial bool
}

// Contains is true for times in [Open, Close).
func (h TradingHours) Contains(t time.Time) bool {
	return !t.Before(h.Open) && t.Before(h.Close)
}
