package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deerhacks-service/internal/domain"
	"deerhacks-service/internal/points"
	"go.uber.org/zap"
)

// RecentClaimantsLimit caps the live claimant list on the admin QR screen.
const RecentClaimantsLimit = 5

// PointsStore keeps the workshop points ledger. Claim must be idempotent per
// user and event: a second claim returns ErrAlreadyClaimed and changes nothing.
type PointsStore interface {
	Claim(ctx context.Context, r domain.Redemption) (total int, err error)
	Adjust(ctx context.Context, a domain.PointAdjustment) (total int, err error)
	Points(ctx context.Context, userID string) (domain.UserPoints, error)
	RecentRedemptions(ctx context.Context, eventID int64, limit int) ([]domain.Redemption, error)
}

// PointsOptions tunes a PointsService. Zero values are usable.
type PointsOptions struct {
	Logger *zap.Logger
	Clock  func() time.Time
}

// PointsService runs workshop QR claims and admin point adjustments.
type PointsService struct {
	events EventStore
	store  PointsStore
	signer *points.Signer
	now    func() time.Time
	logger *zap.Logger
}

func NewPointsService(events EventStore, store PointsStore, signer *points.Signer, opts PointsOptions) *PointsService {
	svc := &PointsService{
		events: events,
		store:  store,
		signer: signer,
		now:    opts.Clock,
		logger: opts.Logger,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// IssueToken mints the QR token for an event that carries points.
func (s *PointsService) IssueToken(ctx context.Context, eventID int64) (domain.ClaimToken, error) {
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return domain.ClaimToken{}, err
	}
	if ev.PointsValue <= 0 {
		return domain.ClaimToken{}, domain.ErrClaimInactive
	}
	return s.signer.Issue(ev.ID, s.now()), nil
}

// Claim redeems an event's points for userID. The token is checked before
// the event so an expired QR reports as expired even if claims were closed.
func (s *PointsService) Claim(ctx context.Context, userID string, eventID int64, token string) (domain.ClaimResult, error) {
	now := s.now()
	if err := s.signer.Verify(token, eventID, now); err != nil {
		return domain.ClaimResult{}, err
	}
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return domain.ClaimResult{}, err
	}
	if !ev.QRActive || ev.PointsValue <= 0 {
		return domain.ClaimResult{}, domain.ErrClaimInactive
	}

	total, err := s.store.Claim(ctx, domain.Redemption{
		UserID:        userID,
		EventID:       ev.ID,
		EventTitle:    ev.Title,
		PointsAwarded: ev.PointsValue,
		RedeemedAt:    now,
	})
	if err != nil {
		return domain.ClaimResult{}, err
	}
	s.logger.Info("points claimed",
		zap.String("user", userID),
		zap.Int64("event", ev.ID),
		zap.Int("points", ev.PointsValue))
	return domain.ClaimResult{PointsAwarded: ev.PointsValue, TotalPoints: total, EventTitle: ev.Title}, nil
}

// Adjust writes an admin ledger entry and returns the new total. Prize
// redemptions must spend points; balances may go negative.
func (s *PointsService) Adjust(ctx context.Context, userID string, delta int, kind domain.AdjustmentType, reason string) (int, error) {
	switch {
	case strings.TrimSpace(userID) == "":
		return 0, fmt.Errorf("%w: user is required", domain.ErrInvalidAdjustment)
	case delta == 0:
		return 0, fmt.Errorf("%w: delta must not be zero", domain.ErrInvalidAdjustment)
	case !kind.Valid():
		return 0, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidAdjustment, kind)
	case kind == domain.AdjustmentPrize && delta > 0:
		return 0, fmt.Errorf("%w: prize redemption must be negative", domain.ErrInvalidAdjustment)
	case strings.TrimSpace(reason) == "":
		return 0, fmt.Errorf("%w: reason is required", domain.ErrInvalidAdjustment)
	}

	total, err := s.store.Adjust(ctx, domain.PointAdjustment{
		UserID:     userID,
		Delta:      delta,
		Type:       kind,
		Reason:     reason,
		AdjustedAt: s.now(),
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("points adjusted",
		zap.String("user", userID),
		zap.Int("delta", delta),
		zap.String("type", string(kind)))
	return total, nil
}

// Points returns a user's balance and ledger. Unknown users have zero.
func (s *PointsService) Points(ctx context.Context, userID string) (domain.UserPoints, error) {
	return s.store.Points(ctx, userID)
}

// RecentClaimants lists the latest redemptions of an event, newest first.
func (s *PointsService) RecentClaimants(ctx context.Context, eventID int64) ([]domain.Redemption, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.RecentRedemptions(ctx, eventID, RecentClaimantsLimit)
}
