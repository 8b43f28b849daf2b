package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"deerhacks-service/internal/app"
	"deerhacks-service/internal/domain"
	"deerhacks-service/internal/infra/memory"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.February, 14, 18, 0, 0, 0, time.UTC)

func newArchetypeService() (*app.ArchetypeService, *memory.ResultStore) {
	store := memory.NewResultStore()
	return app.NewArchetypeServiceWithClock(store, zap.NewNop(), func() time.Time { return fixedNow }), store
}

func TestSubmitStoresScoredResult(t *testing.T) {
	ctx := context.Background()
	service, _ := newArchetypeService()

	record, err := service.Submit(ctx, "u1", " i ")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if record.Result.Archetype != domain.Moon || record.Result.Scores[domain.Moon] != 1 {
		t.Fatalf("expected Moon with 1 point, got %+v", record.Result)
	}
	if !record.SubmittedAt.Equal(fixedNow) {
		t.Fatalf("expected fixed timestamp, got %v", record.SubmittedAt)
	}

	stored, err := service.Get(ctx, "u1")
	if err != nil || stored.Result.Archetype != domain.Moon {
		t.Fatalf("expected stored Moon, got %+v (%v)", stored, err)
	}
}

func TestSubmitRejectsUnscoredAnswer(t *testing.T) {
	ctx := context.Background()
	service, store := newArchetypeService()

	for _, answer := range []string{"", "K", "AB"} {
		if _, err := service.Submit(ctx, "u1", answer); !errors.Is(err, domain.ErrUnscoredAnswer) {
			t.Fatalf("%q: expected ErrUnscoredAnswer, got %v", answer, err)
		}
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("unscored answers must not be stored, got %v", err)
	}
}

func TestSubmitWeighted(t *testing.T) {
	ctx := context.Background()
	service, _ := newArchetypeService()

	record, err := service.SubmitWeighted(ctx, "u2", []string{"c", "", "a"})
	if err != nil {
		t.Fatalf("submit weighted: %v", err)
	}
	if record.Result.Archetype != domain.Earth {
		t.Fatalf("expected Earth on tie, got %s", record.Result.Archetype)
	}

	if _, err := service.SubmitWeighted(ctx, "u3", nil); !errors.Is(err, domain.ErrUnscoredAnswer) {
		t.Fatalf("expected ErrUnscoredAnswer for empty answers, got %v", err)
	}
}

func TestDistribution(t *testing.T) {
	ctx := context.Background()
	service, _ := newArchetypeService()

	_, _ = service.Submit(ctx, "u1", "A")
	_, _ = service.Submit(ctx, "u2", "A")
	_, _ = service.Submit(ctx, "u3", "J")

	counts, err := service.Distribution(ctx)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(counts) != 10 || counts[domain.Earth] != 2 || counts[domain.Sun] != 1 {
		t.Fatalf("unexpected distribution %v", counts)
	}
}
