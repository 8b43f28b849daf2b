package memory

import (
	"context"
	"sync"

	"deerhacks-service/internal/domain"
)

// EventStore is an in-memory implementation of app.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64]domain.Event
}

// NewEventStore seeds the store. Seed events keep their IDs.
func NewEventStore(seed ...domain.Event) *EventStore {
	s := &EventStore{events: make(map[int64]domain.Event)}
	for _, ev := range seed {
		s.events[ev.ID] = ev
		if ev.ID > s.nextID {
			s.nextID = ev.ID
		}
	}
	return s
}

func (s *EventStore) List(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	return out, nil
}

func (s *EventStore) Get(_ context.Context, id int64) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return ev, nil
}

func (s *EventStore) Create(_ context.Context, ev domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	ev.ID = s.nextID
	s.events[ev.ID] = ev
	return ev, nil
}

func (s *EventStore) Update(_ context.Context, ev domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[ev.ID]; !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	s.events[ev.ID] = ev
	return ev, nil
}

func (s *EventStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}
