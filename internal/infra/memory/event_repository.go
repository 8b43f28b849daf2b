package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"deerhacks-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// EventLoader fetches the full event list from a backing store.
type EventLoader interface {
	List(ctx context.Context) ([]domain.Event, error)
}

// EventRepository caches the event list with a TTL to avoid repeated store hits.
type EventRepository struct {
	loader EventLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	events    []domain.Event
	expiresAt time.Time
	loaded    bool

	// generation advances on Invalidate; a load started under an older
	// generation must not fill the cache.
	generation uint64
}

const eventsFlight = "events"

func NewEventRepository(loader EventLoader, ttl time.Duration) *EventRepository {
	return &EventRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *EventRepository) Events(ctx context.Context) ([]domain.Event, error) {
	if events, ok := r.cached(r.clock()); ok {
		return events, nil
	}

	result, err, _ := r.sf.Do(eventsFlight, func() (interface{}, error) {
		now := r.clock()
		if events, ok := r.cached(now); ok {
			return events, nil
		}

		r.mu.RLock()
		generation := r.generation
		r.mu.RUnlock()

		events, err := r.loader.List(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.generation == generation {
			r.events = events
			r.expiresAt = now.Add(r.ttlWithJitter())
			r.loaded = true
		}
		r.mu.Unlock()
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return copyEvents(result.([]domain.Event)), nil
}

// Invalidate drops the cached list so the next read hits the loader. A load
// already in flight is detached and its result is not cached.
func (r *EventRepository) Invalidate(_ context.Context) error {
	r.mu.Lock()
	r.events = nil
	r.loaded = false
	r.generation++
	r.mu.Unlock()
	r.sf.Forget(eventsFlight)
	return nil
}

func (r *EventRepository) cached(now time.Time) ([]domain.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded || !r.expiresAt.After(now) {
		return nil, false
	}
	return copyEvents(r.events), true
}

// ttlWithJitter returns 0 for a non-positive ttl, which leaves the list uncached.
func (r *EventRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func copyEvents(events []domain.Event) []domain.Event {
	return append([]domain.Event(nil), events...)
}
