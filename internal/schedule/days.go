package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"deerhacks-service/internal/domain"
)

// DateLayout is the key format of a schedule day.
const DateLayout = "2006-01-02"

// SplitByDay buckets events by local day. Events running past midnight are
// cut into one segment per day; each segment keeps the event's real times.
func SplitByDay(events []domain.Event, loc *time.Location) map[string][]domain.EventSegment {
	if loc == nil {
		loc = time.UTC
	}
	days := make(map[string][]domain.EventSegment)
	for _, ev := range events {
		start := ev.StartTime.In(loc)
		var actualEnd *time.Time
		if ev.EndTime != nil {
			end := ev.EndTime.In(loc)
			actualEnd = &end
		}

		if actualEnd == nil || !actualEnd.After(start) {
			key := start.Format(DateLayout)
			days[key] = append(days[key], domain.EventSegment{
				Event:       ev,
				Start:       start,
				End:         actualEnd,
				ActualStart: start,
				ActualEnd:   actualEnd,
			})
			continue
		}

		segStart := start
		for segStart.Before(*actualEnd) {
			y, m, d := segStart.Date()
			nextMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
			segEnd := *actualEnd
			if nextMidnight.Before(segEnd) {
				segEnd = nextMidnight
			}
			key := segStart.Format(DateLayout)
			days[key] = append(days[key], domain.EventSegment{
				Event:       ev,
				Start:       segStart,
				End:         &segEnd,
				ActualStart: start,
				ActualEnd:   actualEnd,
			})
			segStart = nextMidnight
		}
	}
	return days
}

// Build splits events into days and packs each day. Days come back in
// chronological order.
func Build(events []domain.Event, loc *time.Location) domain.Schedule {
	byDay := SplitByDay(events, loc)
	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	sched := domain.Schedule{Days: make([]domain.DayGrid, 0, len(dates))}
	for _, date := range dates {
		sched.Days = append(sched.Days, Pack(date, byDay[date]))
	}
	return sched
}

// Validate checks an event before it is written.
func Validate(ev domain.Event) error {
	if strings.TrimSpace(ev.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidEvent)
	}
	if ev.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", domain.ErrInvalidEvent)
	}
	if ev.EndTime != nil && ev.EndTime.Before(ev.StartTime) {
		return fmt.Errorf("%w: end time before start time", domain.ErrInvalidEvent)
	}
	if !knownHost(ev.Host) {
		return fmt.Errorf("%w: unknown host %q", domain.ErrInvalidEvent, ev.Host)
	}
	if !knownType(ev.Type) {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidEvent, ev.Type)
	}
	if ev.PointsValue < 0 {
		return fmt.Errorf("%w: points value must not be negative", domain.ErrInvalidEvent)
	}
	return nil
}

func knownHost(h domain.EventHost) bool {
	for _, known := range domain.EventHosts {
		if h == known {
			return true
		}
	}
	return false
}

func knownType(t domain.EventType) bool {
	for _, known := range domain.EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SortEvents orders events by start time, then ID.
func SortEvents(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
}
