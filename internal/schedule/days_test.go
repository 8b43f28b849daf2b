package schedule

import (
	"errors"
	"testing"
	"time"

	"deerhacks-service/internal/domain"
)

func event(id int64, start time.Time, end *time.Time) domain.Event {
	return domain.Event{
		ID:        id,
		Title:     "event",
		StartTime: start,
		EndTime:   end,
		Host:      "deerhacks",
		Type:      domain.EventLogistics,
	}
}

func TestSplitByDayUsesLocalDate(t *testing.T) {
	toronto, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 01:00 UTC on the 15th is 20:00 on the 14th in Toronto.
	start := time.Date(2025, time.February, 15, 1, 0, 0, 0, time.UTC)
	days := SplitByDay([]domain.Event{event(65, start, ptr(start.Add(30*time.Minute)))}, toronto)

	if _, ok := days["2025-02-14"]; !ok || len(days) != 1 {
		t.Fatalf("expected event on 2025-02-14, got %v", days)
	}
}

func TestSplitByDayCutsAtMidnight(t *testing.T) {
	start := time.Date(2025, time.February, 15, 22, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 16, 1, 0, 0, 0, time.UTC)

	days := SplitByDay([]domain.Event{event(55, start, &end)}, time.UTC)
	first, second := days["2025-02-15"], days["2025-02-16"]
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one segment per day, got %v", days)
	}
	if !first[0].End.Equal(time.Date(2025, time.February, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first segment should end at midnight, got %v", first[0].End)
	}
	if !second[0].Start.Equal(time.Date(2025, time.February, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("second segment should start at midnight, got %v", second[0].Start)
	}
	for _, s := range []domain.EventSegment{first[0], second[0]} {
		if !s.ActualStart.Equal(start) || !s.ActualEnd.Equal(end) {
			t.Fatalf("segment lost actual times: %+v", s)
		}
	}

	grid := Pack("2025-02-15", first)
	if p := grid.Placements[0]; p.StartHour != 22 || p.EndHour != 24 {
		t.Fatalf("expected [22,24), got [%d,%d)", p.StartHour, p.EndHour)
	}
}

func TestSplitByDayOpenEndedStaysOnStartDay(t *testing.T) {
	start := time.Date(2025, time.February, 15, 23, 30, 0, 0, time.UTC)
	days := SplitByDay([]domain.Event{event(7, start, nil)}, time.UTC)
	if len(days) != 1 || len(days["2025-02-15"]) != 1 {
		t.Fatalf("expected a single segment, got %v", days)
	}
}

func TestBuildSortsDays(t *testing.T) {
	events := []domain.Event{
		event(3, time.Date(2025, time.February, 16, 18, 0, 0, 0, time.UTC), nil),
		event(323, time.Date(2025, time.February, 14, 23, 0, 0, 0, time.UTC), nil),
		event(1, time.Date(2025, time.February, 15, 13, 0, 0, 0, time.UTC), nil),
	}
	sched := Build(events, time.UTC)

	var dates []string
	for _, d := range sched.Days {
		dates = append(dates, d.Date)
	}
	want := []string{"2025-02-14", "2025-02-15", "2025-02-16"}
	if len(dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, dates)
		}
	}
}

func TestValidate(t *testing.T) {
	start := time.Date(2025, time.February, 15, 9, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	valid := event(1, start, nil)
	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*domain.Event)
	}{
		{"missing title", func(e *domain.Event) { e.Title = "  " }},
		{"missing start", func(e *domain.Event) { e.StartTime = time.Time{} }},
		{"end before start", func(e *domain.Event) { e.EndTime = &before }},
		{"unknown host", func(e *domain.Event) { e.Host = "acme" }},
		{"unknown type", func(e *domain.Event) { e.Type = "party" }},
		{"negative points", func(e *domain.Event) { e.PointsValue = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)
			if err := Validate(ev); !errors.Is(err, domain.ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
		})
	}
}
