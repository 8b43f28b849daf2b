package memory

import (
	"context"
	"sort"
	"sync"

	"deerhacks-service/internal/domain"
)

// ResultStore keeps archetype results in memory, latest submission wins.
type ResultStore struct {
	mu      sync.RWMutex
	records map[string]domain.ArchetypeRecord
}

func NewResultStore() *ResultStore {
	return &ResultStore{records: make(map[string]domain.ArchetypeRecord)}
}

func (s *ResultStore) Save(_ context.Context, record domain.ArchetypeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.UserID] = record
	return nil
}

func (s *ResultStore) Get(_ context.Context, userID string) (domain.ArchetypeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[userID]
	if !ok {
		return domain.ArchetypeRecord{}, domain.ErrResultNotFound
	}
	return record, nil
}

func (s *ResultStore) List(_ context.Context) ([]domain.ArchetypeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ArchetypeRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
