// Package schedule lays out a day's events on an hour-by-column grid.
package schedule

import (
	"sort"
	"time"

	"deerhacks-service/internal/domain"
)

const hoursPerDay = 24

// Pack assigns every segment of one day to a column. Segments are placed in
// start order, each in the lowest column that is free for every hour bucket
// it spans, so two segments sharing a column never share a bucket.
func Pack(date string, segments []domain.EventSegment) domain.DayGrid {
	ordered := append([]domain.EventSegment(nil), segments...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		ae, be := segmentEnd(a), segmentEnd(b)
		if !ae.Equal(be) {
			return ae.Before(be)
		}
		return a.Event.ID < b.Event.ID
	})

	grid := domain.DayGrid{
		Date:       date,
		Placements: make([]domain.Placement, 0, len(ordered)),
		Occupancy:  make(map[int]map[int]int64),
	}
	for i, seg := range ordered {
		from, to := hourSpan(seg)
		col := lowestFreeColumn(grid.Occupancy, from, to)
		for h := from; h < to; h++ {
			if grid.Occupancy[h] == nil {
				grid.Occupancy[h] = make(map[int]int64)
			}
			grid.Occupancy[h][col] = seg.Event.ID
		}
		grid.Placements = append(grid.Placements, domain.Placement{
			Segment:   seg,
			Column:    col,
			StartHour: from,
			EndHour:   to,
		})

		if col+1 > grid.Columns {
			grid.Columns = col + 1
		}
		if i == 0 || from < grid.FirstHour {
			grid.FirstHour = from
		}
		if to > grid.LastHour {
			grid.LastHour = to
		}
	}
	return grid
}

// hourSpan returns the half-open bucket range [from, to) covered by seg.
// A segment without a usable end covers only its start bucket.
func hourSpan(seg domain.EventSegment) (int, int) {
	from := seg.Start.Hour()
	if seg.End == nil || !seg.End.After(seg.Start) {
		return from, from + 1
	}
	end := *seg.End
	var to int
	if !sameDay(seg.Start, end) {
		to = hoursPerDay
	} else {
		to = end.Hour()
		if end.Minute() > 0 || end.Second() > 0 || end.Nanosecond() > 0 {
			to++
		}
	}
	if to > hoursPerDay {
		to = hoursPerDay
	}
	if to <= from {
		to = from + 1
	}
	return from, to
}

func lowestFreeColumn(occupancy map[int]map[int]int64, from, to int) int {
	for col := 0; ; col++ {
		free := true
		for h := from; h < to; h++ {
			if _, taken := occupancy[h][col]; taken {
				free = false
				break
			}
		}
		if free {
			return col
		}
	}
}

func segmentEnd(seg domain.EventSegment) time.Time {
	if seg.End == nil {
		return seg.Start
	}
	return *seg.End
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
