package app

import (
	"sync"

	"deerhacks-service/internal/domain"
)

// feed fans schedule snapshots out to subscribers.
type feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.Schedule]struct{}
}

func newFeed() *feed {
	return &feed{subscribers: make(map[chan domain.Schedule]struct{})}
}

func (f *feed) subscribe(initial domain.Schedule) (<-chan domain.Schedule, func()) {
	ch := make(chan domain.Schedule, 8)
	ch <- initial

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *feed) broadcast(s domain.Schedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- s:
		default:
			// Slow reader: drop its oldest snapshot to make room.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

func (f *feed) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
