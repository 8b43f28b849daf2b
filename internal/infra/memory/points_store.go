package memory

import (
	"context"
	"sync"

	"deerhacks-service/internal/domain"
)

type claimKey struct {
	userID  string
	eventID int64
}

// PointsStore is an in-memory implementation of app.PointsStore.
type PointsStore struct {
	mu          sync.Mutex
	claimed     map[claimKey]struct{}
	redemptions map[string][]domain.Redemption
	byEvent     map[int64][]domain.Redemption
	adjustments map[string][]domain.PointAdjustment
	totals      map[string]int
}

func NewPointsStore() *PointsStore {
	return &PointsStore{
		claimed:     make(map[claimKey]struct{}),
		redemptions: make(map[string][]domain.Redemption),
		byEvent:     make(map[int64][]domain.Redemption),
		adjustments: make(map[string][]domain.PointAdjustment),
		totals:      make(map[string]int),
	}
}

func (s *PointsStore) Claim(_ context.Context, r domain.Redemption) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claimKey{userID: r.UserID, eventID: r.EventID}
	if _, ok := s.claimed[key]; ok {
		return 0, domain.ErrAlreadyClaimed
	}
	s.claimed[key] = struct{}{}
	s.redemptions[r.UserID] = append(s.redemptions[r.UserID], r)
	s.byEvent[r.EventID] = append(s.byEvent[r.EventID], r)
	s.totals[r.UserID] += r.PointsAwarded
	return s.totals[r.UserID], nil
}

func (s *PointsStore) Adjust(_ context.Context, a domain.PointAdjustment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustments[a.UserID] = append(s.adjustments[a.UserID], a)
	s.totals[a.UserID] += a.Delta
	return s.totals[a.UserID], nil
}

func (s *PointsStore) Points(_ context.Context, userID string) (domain.UserPoints, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.UserPoints{
		UserID:      userID,
		TotalPoints: s.totals[userID],
		Redemptions: append([]domain.Redemption{}, s.redemptions[userID]...),
		Adjustments: append([]domain.PointAdjustment{}, s.adjustments[userID]...),
	}, nil
}

func (s *PointsStore) RecentRedemptions(_ context.Context, eventID int64, limit int) ([]domain.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.byEvent[eventID]
	out := make([]domain.Redemption, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
