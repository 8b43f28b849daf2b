package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"deerhacks-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	// EventsKey holds the JSON-encoded event list.
	EventsKey = "schedule:events"
	// EventsVersionKey is bumped on every invalidation. A load only fills
	// the cache if the version it started under is still current.
	EventsVersionKey = "schedule:events:version"
)

// EventLoader fetches the event list from the backing store.
type EventLoader interface {
	List(ctx context.Context) ([]domain.Event, error)
}

// EventRepository caches the event list in Redis and falls back to a loader on miss.
// The cache is shared, so an admin write on one instance is seen by all of them
// once Invalidate runs.
type EventRepository struct {
	client *redis.Client
	loader EventLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewEventRepository(client *redis.Client, loader EventLoader, ttl time.Duration) *EventRepository {
	return &EventRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *EventRepository) Events(ctx context.Context) ([]domain.Event, error) {
	if events, ok := r.cached(ctx); ok {
		return events, nil
	}

	result, err, _ := r.sf.Do(EventsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if events, ok := r.cached(ctx); ok {
			return events, nil
		}

		version, err := r.version(ctx)
		if err != nil {
			return nil, err
		}

		events, err := r.loader.List(ctx)
		if err != nil {
			return nil, err
		}
		// best-effort fill; a failed or skipped write only costs another load
		_ = r.fill(ctx, version, events)
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Event), nil
}

// fill caches events unless an invalidation happened since version was read.
func (r *EventRepository) fill(ctx context.Context, version int64, events []domain.Event) error {
	ttl := r.ttlWithJitter()
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := versionOf(tx.Get(ctx, EventsVersionKey))
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, EventsKey, raw, ttl)
			return nil
		})
		return err
	}, EventsVersionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate removes the cached list and bumps the version so loads already
// in flight, on any instance, do not write it back.
func (r *EventRepository) Invalidate(ctx context.Context) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, EventsVersionKey)
	pipe.Del(ctx, EventsKey)
	_, err := pipe.Exec(ctx)
	r.sf.Forget(EventsKey)
	return err
}

func (r *EventRepository) version(ctx context.Context) (int64, error) {
	v, err := versionOf(r.client.Get(ctx, EventsVersionKey))
	if err != nil {
		return 0, fmt.Errorf("read events version: %w", err)
	}
	return v, nil
}

func versionOf(cmd *redis.StringCmd) (int64, error) {
	v, err := cmd.Int64()
	if isNil(err) {
		return 0, nil
	}
	return v, err
}

func (r *EventRepository) cached(ctx context.Context) ([]domain.Event, bool) {
	raw, err := r.client.Get(ctx, EventsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, false
	}
	return events, true
}

// ttlWithJitter returns 0 for a non-positive ttl. fill treats that as "do not
// cache" rather than handing Redis a zero expiration, which never expires.
func (r *EventRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
