// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package datalayer

import (
	"errors"
	"fmt"
	"maycharts/chartapi"
	"maycharts/chartapi/horzscale"
	"maycharts/chartval"
	"maycharts/plotlist"

	"github.com/zhangyunhao116/skipmap"
	"golang.org/x/exp/slices"
)

var ErrOldData = errors.New("cannot update oldest data")

// Series converts caller items to rows. Used as map key, so implementations should be pointers.
type Series interface {
	CreateRow(index int, t horzscale.TimePoint, item chartapi.DataItem) *plotlist.Row
}

type SeriesInfo struct {
	LastBarUpdatedOrNewBarsAddedToTheRight bool
}

type SeriesChanges struct {
	// Non-whitespace rows, ascending by index.
	Data []*plotlist.Row
	Info *SeriesInfo
}

type TimeScaleChanges struct {
	// Nil if no series has rows.
	BaseIndex *int
	// Nil if the timeline is unchanged.
	Points []horzscale.Point
	// -1 if the timeline is unchanged.
	FirstChangedPointIndex int
}

type UpdateResponse struct {
	Series    map[Series]SeriesChanges
	TimeScale TimeScaleChanges
}

// One slot of the shared timeline.
type timePointData struct {
	index        int
	timePoint    horzscale.TimePoint
	originalTime any
	mapping      map[Series]*plotlist.Row
}

func newTimePointData(t horzscale.TimePoint, originalTime any) *timePointData {
	return &timePointData{index: 0, timePoint: t, originalTime: originalTime, mapping: make(map[Series]*plotlist.Row)}
}

func (d *timePointData) assignIndex(index int) {
	d.index = index
	for _, row := range d.mapping {
		row.Index = index
	}
}

// DataLayer merges the data of all series into one timeline.
type DataLayer struct {
	behavior         horzscale.Behavior
	pointDataByKey   *skipmap.Int64Map[*timePointData]
	seriesRows       map[Series][]*plotlist.Row
	seriesLastKey    map[Series]int64
	sortedPoints     []horzscale.Point
	sortedPointsData []*timePointData
}

func NewDataLayer(behavior horzscale.Behavior) *DataLayer {
	return &DataLayer{
		behavior:       behavior,
		pointDataByKey: skipmap.NewInt64[*timePointData](),
		seriesRows:     make(map[Series][]*plotlist.Row),
		seriesLastKey:  make(map[Series]int64),
	}
}

func (l *DataLayer) Behavior() horzscale.Behavior {
	return l.behavior
}

// Points returns the current timeline.
func (l *DataLayer) Points() []horzscale.Point {
	return l.sortedPoints
}

func (l *DataLayer) convertTimes(items []chartapi.DataItem) ([]horzscale.TimePoint, error) {
	converter, err := l.behavior.CreateConverter(items)
	if err != nil {
		return nil, err
	}
	times := make([]horzscale.TimePoint, len(items))
	for i, item := range items {
		if times[i], err = converter(item.GetTime()); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return times, nil
}

// SetSeriesData replaces all data of a series. Passing no items removes the series.
func (l *DataLayer) SetSeriesData(series Series, items []chartapi.DataItem) (UpdateResponse, error) {
	times, err := l.convertTimes(items)
	if err != nil {
		return UpdateResponse{}, err
	}
	if err := chartapi.CheckItemsAscending(times, l.behavior.Key); err != nil {
		return UpdateResponse{}, err
	}

	needCleanupPoints := l.pointDataByKey.Len() != 0
	isTimeScaleAffected := false
	if _, ok := l.seriesRows[series]; ok {
		if len(l.seriesRows) == 1 {
			needCleanupPoints = false
			isTimeScaleAffected = true
			l.pointDataByKey = skipmap.NewInt64[*timePointData]()
		} else {
			for _, pointData := range l.sortedPointsData {
				if _, ok := pointData.mapping[series]; ok {
					delete(pointData.mapping, series)
					isTimeScaleAffected = true
				}
			}
		}
	}

	rows := make([]*plotlist.Row, 0, len(items))
	for i, item := range items {
		key := l.behavior.Key(times[i])
		pointData, loaded := l.pointDataByKey.LoadOrStoreLazy(key, func() *timePointData {
			return newTimePointData(times[i], item.GetTime())
		})
		if !loaded {
			isTimeScaleAffected = true
		}
		row := series.CreateRow(pointData.index, times[i], item)
		pointData.mapping[series] = row
		rows = append(rows, row)
	}

	if needCleanupPoints {
		l.cleanupPointsData()
	}
	l.setRowsToSeries(series, rows)

	firstChangedPointIndex := -1
	if isTimeScaleAffected {
		firstChangedPointIndex = l.replaceTimeScalePoints()
	}
	return l.updateResponse(series, firstChangedPointIndex, nil), nil
}

// RemoveSeries drops a series and every slot only it occupied.
func (l *DataLayer) RemoveSeries(series Series) UpdateResponse {
	// Cannot fail without items.
	response, _ := l.SetSeriesData(series, nil)
	return response
}

// UpdateSeriesData replaces the last bar of a series or appends a new one.
func (l *DataLayer) UpdateSeriesData(series Series, item chartapi.DataItem) (UpdateResponse, error) {
	times, err := l.convertTimes([]chartapi.DataItem{item})
	if err != nil {
		return UpdateResponse{}, err
	}
	t := times[0]
	key := l.behavior.Key(t)
	if lastKey, ok := l.seriesLastKey[series]; ok && key < lastKey {
		return UpdateResponse{}, fmt.Errorf("%w: time %d is before last time %d", ErrOldData, key, lastKey)
	}

	pointData, loaded := l.pointDataByKey.LoadOrStoreLazy(key, func() *timePointData {
		return newTimePointData(t, item.GetTime())
	})
	row := series.CreateRow(pointData.index, t, item)
	pointData.mapping[series] = row
	l.updateLastSeriesRow(series, row, key)

	info := &SeriesInfo{LastBarUpdatedOrNewBarsAddedToTheRight: !row.Whitespace}
	if loaded {
		return l.updateResponse(series, -1, info), nil
	}

	insertIndex := chartval.LowerBound(l.sortedPoints, key, func(p horzscale.Point, k int64) bool {
		return l.behavior.Key(p.Time) < k
	})
	l.sortedPoints = slices.Insert(l.sortedPoints, insertIndex, horzscale.Point{Time: t, OriginalTime: item.GetTime()})
	l.sortedPointsData = slices.Insert(l.sortedPointsData, insertIndex, pointData)
	for i := insertIndex; i < len(l.sortedPointsData); i++ {
		l.sortedPointsData[i].assignIndex(i)
	}
	l.behavior.FillWeightsForPoints(l.sortedPoints, insertIndex)
	return l.updateResponse(series, insertIndex, info), nil
}

func (l *DataLayer) updateLastSeriesRow(series Series, row *plotlist.Row, key int64) {
	rows := l.seriesRows[series]
	if len(rows) == 0 || key > l.behavior.Key(rows[len(rows)-1].Time) {
		if !row.Whitespace {
			rows = append(rows, row)
		}
	} else if !row.Whitespace {
		rows[len(rows)-1] = row
	} else {
		rows = rows[:len(rows)-1]
	}
	l.seriesRows[series] = rows
	l.seriesLastKey[series] = key
}

func (l *DataLayer) cleanupPointsData() {
	for _, pointData := range l.sortedPointsData {
		if len(pointData.mapping) == 0 {
			l.pointDataByKey.Delete(l.behavior.Key(pointData.timePoint))
		}
	}
}

func (l *DataLayer) setRowsToSeries(series Series, rows []*plotlist.Row) {
	if len(rows) == 0 {
		delete(l.seriesRows, series)
		delete(l.seriesLastKey, series)
		return
	}
	l.seriesRows[series] = slices.DeleteFunc(slices.Clone(rows), func(r *plotlist.Row) bool { return r.Whitespace })
	l.seriesLastKey[series] = l.behavior.Key(rows[len(rows)-1].Time)
}

// replaceTimeScalePoints rebuilds the timeline from the slot map and returns the first changed index.
func (l *DataLayer) replaceTimeScalePoints() int {
	newPointsData := make([]*timePointData, 0, l.pointDataByKey.Len())
	l.pointDataByKey.Range(func(key int64, pointData *timePointData) bool {
		newPointsData = append(newPointsData, pointData)
		return true
	})
	newPoints := make([]horzscale.Point, len(newPointsData))
	for i, pointData := range newPointsData {
		newPoints[i] = horzscale.Point{Time: pointData.timePoint, OriginalTime: pointData.originalTime}
	}

	firstChangedPointIndex := -1
	for i := 0; i < len(l.sortedPoints) && i < len(newPoints); i++ {
		if l.behavior.Key(l.sortedPoints[i].Time) != l.behavior.Key(newPoints[i].Time) {
			firstChangedPointIndex = i
			break
		}
		newPoints[i].TimeWeight = l.sortedPoints[i].TimeWeight
		newPointsData[i].assignIndex(i)
	}
	if firstChangedPointIndex == -1 && len(l.sortedPoints) != len(newPoints) {
		firstChangedPointIndex = min(len(l.sortedPoints), len(newPoints))
	}
	if firstChangedPointIndex == -1 {
		// Same keys, but the slots may have been recreated.
		l.sortedPoints = newPoints
		l.sortedPointsData = newPointsData
		return -1
	}
	for i := firstChangedPointIndex; i < len(newPointsData); i++ {
		newPointsData[i].assignIndex(i)
	}
	l.behavior.FillWeightsForPoints(newPoints, firstChangedPointIndex)
	l.sortedPoints = newPoints
	l.sortedPointsData = newPointsData
	return firstChangedPointIndex
}

func (l *DataLayer) baseIndex() *int {
	var baseIndex *int
	for _, rows := range l.seriesRows {
		if len(rows) == 0 {
			continue
		}
		last := rows[len(rows)-1].Index
		if baseIndex == nil || last > *baseIndex {
			baseIndex = &last
		}
	}
	return baseIndex
}

func (l *DataLayer) updateResponse(updatedSeries Series, firstChangedPointIndex int, info *SeriesInfo) UpdateResponse {
	response := UpdateResponse{
		Series: make(map[Series]SeriesChanges),
		TimeScale: TimeScaleChanges{
			BaseIndex:              l.baseIndex(),
			FirstChangedPointIndex: -1,
		},
	}
	if firstChangedPointIndex == -1 {
		response.Series[updatedSeries] = SeriesChanges{Data: l.seriesRows[updatedSeries], Info: info}
		return response
	}
	// Indices may have moved for every series.
	for series, rows := range l.seriesRows {
		changes := SeriesChanges{Data: rows}
		if series == updatedSeries {
			changes.Info = info
		}
		response.Series[series] = changes
	}
	if _, ok := l.seriesRows[updatedSeries]; !ok {
		response.Series[updatedSeries] = SeriesChanges{Info: info}
	}
	response.TimeScale.Points = slices.Clone(l.sortedPoints)
	response.TimeScale.FirstChangedPointIndex = firstChangedPointIndex
	return response
}
