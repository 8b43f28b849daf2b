package memory

import (
	"context"
	"errors"
	"testing"

	"deerhacks-service/internal/domain"
)

func TestEventStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore(sampleEvents()...)

	created, err := store.Create(ctx, domain.Event{Title: "Lunch", Host: "deerhacks", Type: domain.EventFood})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 8 {
		t.Fatalf("expected id after highest seed (8), got %d", created.ID)
	}

	created.Location = "DH Cafe"
	if _, err := store.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.Get(ctx, created.ID)
	if err != nil || got.Location != "DH Cafe" {
		t.Fatalf("expected updated event, got %+v (%v)", got, err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := store.Update(ctx, domain.Event{ID: 99}); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}

	if _, err := store.Get(ctx, created.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	events, _ := store.List(ctx)
	if len(events) != 2 {
		t.Fatalf("expected seed events only, got %d", len(events))
	}
}
