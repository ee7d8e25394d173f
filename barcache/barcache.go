// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package barcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"maycharts/chartapi"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/lotodore/localcache"
)

const cacheKeyPrefix = "bars_"

// Bar is the cached form of chartapi.CandleData.
type Bar struct {
	Time  int64        `json:"time"`
	Open  *decimal.Big `json:"open,omitempty"`
	High  *decimal.Big `json:"high,omitempty"`
	Low   *decimal.Big `json:"low,omitempty"`
	Close *decimal.Big `json:"close,omitempty"`
}

func (b Bar) CandleData() chartapi.CandleData {
	return chartapi.CandleData{Time: b.Time, OpenPrice: b.Open, HighPrice: b.High, LowPrice: b.Low, ClosePrice: b.Close}
}

// BarFromCandle only supports unix timestamps.
func BarFromCandle(c chartapi.CandleData) (Bar, error) {
	bar := Bar{Open: c.OpenPrice, High: c.HighPrice, Low: c.LowPrice, Close: c.ClosePrice}
	switch t := c.Time.(type) {
	case int64:
		bar.Time = t
	case int:
		bar.Time = int64(t)
	case time.Time:
		bar.Time = t.Unix()
	default:
		return Bar{}, fmt.Errorf("%w: cannot cache time of type %T", chartapi.ErrInvalidTime, c.Time)
	}
	return bar, nil
}

type snapshot struct {
	Symbol     string `json:"symbol"`
	Resolution string `json:"resolution"`
	Bars       []Bar  `json:"bars"`
}

// BarCache stores bar snapshots per symbol and resolution. Snapshots older than maxAge are purged.
type BarCache struct {
	data        *localcache.Cache
	maxAge      time.Duration
	requestLock sync.Mutex
}

func New(appName string, maxAge time.Duration) (*BarCache, error) {
	data, err := localcache.New(filepath.Join(appName, "bars"))
	if err != nil {
		return nil, fmt.Errorf("error initializing bar cache: %w", err)
	}
	return &BarCache{data: data, maxAge: maxAge}, nil
}

func cacheKey(symbol, resolution string) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, symbol+"_"+resolution)
	return cacheKeyPrefix + key
}

// Load returns false if no valid snapshot is cached.
func (c *BarCache) Load(symbol, resolution string) ([]chartapi.CandleData, bool) {
	key := cacheKey(symbol, resolution)
	if err := c.data.PurgeKey(key, c.maxAge); err != nil {
		log.Printf("error purging cache %s, bar data may be outdated", key)
	}
	raw, err := c.data.ReadFile(key)
	if err != nil {
		return nil, false
	}
	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil || s.Symbol != symbol || s.Resolution != resolution {
		log.Printf("%s bar cache contains invalid data", symbol)
		if err := c.data.Remove(key); err != nil {
			log.Printf("error deleting cache %s, bar data may be invalid", key)
		}
		return nil, false
	}
	candles := make([]chartapi.CandleData, len(s.Bars))
	for i, bar := range s.Bars {
		candles[i] = bar.CandleData()
	}
	return candles, true
}

// Store replaces the snapshot of symbol. Whitespace candles are not stored.
func (c *BarCache) Store(symbol, resolution string, candles []chartapi.CandleData) error {
	s := snapshot{Symbol: symbol, Resolution: resolution, Bars: make([]Bar, 0, len(candles))}
	for _, candle := range candles {
		if candle.IsWhitespace() {
			continue
		}
		bar, err := BarFromCandle(candle)
		if err != nil {
			return err
		}
		s.Bars = append(s.Bars, bar)
	}
	raw, err := json.Marshal(&s)
	if err != nil {
		return err
	}
	return c.data.WriteFile(cacheKey(symbol, resolution), raw)
}

func (c *BarCache) Remove(symbol, resolution string) error {
	return c.data.Remove(cacheKey(symbol, resolution))
}

// LoadOrRequest loads bars from the cache, or requests and stores them on a cache miss.
func (c *BarCache) LoadOrRequest(
	ctx context.Context,
	symbol, resolution string,
	req func(ctx context.Context) ([]chartapi.CandleData, error),
) ([]chartapi.CandleData, error) {
	if candles, ok := c.Load(symbol, resolution); ok {
		return candles, nil
	}
	c.requestLock.Lock()
	defer c.requestLock.Unlock()
	// Retry within lock, to avoid requesting the data twice.
	if candles, ok := c.Load(symbol, resolution); ok {
		return candles, nil
	}
	log.Printf("requesting %s %s bars...", symbol, resolution)
	candles, err := req(ctx)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s bars: %w", symbol, err)
	}
	if err := c.Store(symbol, resolution, candles); err != nil {
		log.Printf("error caching %s bars: %v", symbol, err)
	}
	return candles, nil
}
