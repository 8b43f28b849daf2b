package app

import (
	"testing"

	"deerhacks-service/internal/domain"
)

func TestFeedDropsStaleSnapshotsForSlowReaders(t *testing.T) {
	f := newFeed()
	ch, cancel := f.subscribe(domain.Schedule{})
	defer cancel()

	// Fill the buffer and then some; broadcast must never block.
	for i := 0; i < 20; i++ {
		f.broadcast(domain.Schedule{Days: make([]domain.DayGrid, i)})
	}

	var last domain.Schedule
	for len(ch) > 0 {
		last = <-ch
	}
	if len(last.Days) != 19 {
		t.Fatalf("expected newest snapshot to survive, got %d days", len(last.Days))
	}
}

func TestFeedCancelClosesChannel(t *testing.T) {
	f := newFeed()
	ch, cancel := f.subscribe(domain.Schedule{})
	<-ch

	cancel()
	cancel() // idempotent
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if f.size() != 0 {
		t.Fatalf("expected no subscribers, got %d", f.size())
	}
}
