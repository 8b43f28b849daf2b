package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"deerhacks-service/internal/domain"
	"github.com/uptrace/bun"
)

type redemptionRow struct {
	bun.BaseModel `bun:"table:workshop_redemptions"`

	UserID        string    `bun:"user_id,pk"`
	EventID       int64     `bun:"event_id,pk"`
	EventTitle    string    `bun:"event_title,notnull"`
	PointsAwarded int       `bun:"points_awarded,notnull"`
	RedeemedAt    time.Time `bun:"redeemed_at,notnull"`
}

type adjustmentRow struct {
	bun.BaseModel `bun:"table:point_adjustments"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         string    `bun:"user_id,notnull"`
	Delta          int       `bun:"delta,notnull"`
	AdjustmentType string    `bun:"adjustment_type,notnull"`
	Reason         string    `bun:"reason,notnull"`
	AdjustedAt     time.Time `bun:"adjusted_at,notnull"`
}

// PointsStore keeps the workshop points ledger in workshop_redemptions and
// point_adjustments. Balances are summed from the ledger on read.
type PointsStore struct {
	db *bun.DB
}

func NewPointsStore(db *bun.DB) *PointsStore {
	return &PointsStore{db: db}
}

func (s *PointsStore) Claim(ctx context.Context, r domain.Redemption) (int, error) {
	var total int
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		row := redemptionRow{
			UserID:        r.UserID,
			EventID:       r.EventID,
			EventTitle:    r.EventTitle,
			PointsAwarded: r.PointsAwarded,
			RedeemedAt:    r.RedeemedAt,
		}
		res, err := tx.NewInsert().Model(&row).On("CONFLICT (user_id, event_id) DO NOTHING").Exec(ctx)
		if err != nil {
			return fmt.Errorf("claim: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrAlreadyClaimed
		}
		total, err = balance(ctx, tx, r.UserID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *PointsStore) Adjust(ctx context.Context, a domain.PointAdjustment) (int, error) {
	var total int
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		row := adjustmentRow{
			UserID:         a.UserID,
			Delta:          a.Delta,
			AdjustmentType: string(a.Type),
			Reason:         a.Reason,
			AdjustedAt:     a.AdjustedAt,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("adjust points: %w", err)
		}
		var err error
		total, err = balance(ctx, tx, a.UserID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *PointsStore) Points(ctx context.Context, userID string) (domain.UserPoints, error) {
	var redemptions []redemptionRow
	if err := s.db.NewSelect().Model(&redemptions).
		Where("user_id = ?", userID).
		Order("redeemed_at ASC").
		Scan(ctx); err != nil {
		return domain.UserPoints{}, fmt.Errorf("load redemptions: %w", err)
	}
	var adjustments []adjustmentRow
	if err := s.db.NewSelect().Model(&adjustments).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx); err != nil {
		return domain.UserPoints{}, fmt.Errorf("load adjustments: %w", err)
	}

	pts := domain.UserPoints{
		UserID:      userID,
		Redemptions: make([]domain.Redemption, 0, len(redemptions)),
		Adjustments: make([]domain.PointAdjustment, 0, len(adjustments)),
	}
	for _, r := range redemptions {
		pts.Redemptions = append(pts.Redemptions, r.toRedemption())
		pts.TotalPoints += r.PointsAwarded
	}
	for _, a := range adjustments {
		pts.Adjustments = append(pts.Adjustments, domain.PointAdjustment{
			UserID:     a.UserID,
			Delta:      a.Delta,
			Type:       domain.AdjustmentType(a.AdjustmentType),
			Reason:     a.Reason,
			AdjustedAt: a.AdjustedAt,
		})
		pts.TotalPoints += a.Delta
	}
	return pts, nil
}

func (s *PointsStore) RecentRedemptions(ctx context.Context, eventID int64, limit int) ([]domain.Redemption, error) {
	var rows []redemptionRow
	if err := s.db.NewSelect().Model(&rows).
		Where("event_id = ?", eventID).
		Order("redeemed_at DESC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load redemptions: %w", err)
	}
	out := make([]domain.Redemption, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toRedemption())
	}
	return out, nil
}

func balance(ctx context.Context, db bun.IDB, userID string) (int, error) {
	var redeemed, adjusted int
	if err := db.NewSelect().Model((*redemptionRow)(nil)).
		ColumnExpr("COALESCE(SUM(points_awarded), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &redeemed); err != nil {
		return 0, fmt.Errorf("sum redemptions: %w", err)
	}
	if err := db.NewSelect().Model((*adjustmentRow)(nil)).
		ColumnExpr("COALESCE(SUM(delta), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &adjusted); err != nil {
		return 0, fmt.Errorf("sum adjustments: %w", err)
	}
	return redeemed + adjusted, nil
}

func (r redemptionRow) toRedemption() domain.Redemption {
	return domain.Redemption{
		UserID:        r.UserID,
		EventID:       r.EventID,
		EventTitle:    r.EventTitle,
		PointsAwarded: r.PointsAwarded,
		RedeemedAt:    r.RedeemedAt,
	}
}
