package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"deerhacks-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PointsStore keeps the workshop points ledger in Redis:
//
//	points:claims:{user}          hash eventID -> redemption JSON (HSETNX makes claims idempotent)
//	points:adjustments:{user}     list of adjustment JSON, oldest first
//	points:total:{user}           running balance
//	points:event:{id}:redemptions list of redemption JSON, newest first
type PointsStore struct {
	client *redis.Client
}

func NewPointsStore(client *redis.Client) *PointsStore {
	return &PointsStore{client: client}
}

func (s *PointsStore) Claim(ctx context.Context, r domain.Redemption) (int, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("encode redemption: %w", err)
	}
	ok, err := s.client.HSetNX(ctx, claimsKey(r.UserID), strconv.FormatInt(r.EventID, 10), raw).Result()
	if err != nil {
		return 0, fmt.Errorf("claim: %w", err)
	}
	if !ok {
		return 0, domain.ErrAlreadyClaimed
	}

	pipe := s.client.TxPipeline()
	total := pipe.IncrBy(ctx, totalKey(r.UserID), int64(r.PointsAwarded))
	pipe.LPush(ctx, eventRedemptionsKey(r.EventID), raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record claim: %w", err)
	}
	return int(total.Val()), nil
}

func (s *PointsStore) Adjust(ctx context.Context, a domain.PointAdjustment) (int, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return 0, fmt.Errorf("encode adjustment: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, adjustmentsKey(a.UserID), raw)
	total := pipe.IncrBy(ctx, totalKey(a.UserID), int64(a.Delta))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("adjust points: %w", err)
	}
	return int(total.Val()), nil
}

func (s *PointsStore) Points(ctx context.Context, userID string) (domain.UserPoints, error) {
	pipe := s.client.Pipeline()
	claims := pipe.HGetAll(ctx, claimsKey(userID))
	adjustments := pipe.LRange(ctx, adjustmentsKey(userID), 0, -1)
	total := pipe.Get(ctx, totalKey(userID))
	if _, err := pipe.Exec(ctx); err != nil && !isNil(err) {
		return domain.UserPoints{}, fmt.Errorf("load points: %w", err)
	}

	pts := domain.UserPoints{
		UserID:      userID,
		Redemptions: make([]domain.Redemption, 0, len(claims.Val())),
		Adjustments: make([]domain.PointAdjustment, 0, len(adjustments.Val())),
	}
	if v, err := total.Int(); err == nil {
		pts.TotalPoints = v
	}
	for _, raw := range claims.Val() {
		var r domain.Redemption
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return domain.UserPoints{}, fmt.Errorf("decode redemption: %w", err)
		}
		pts.Redemptions = append(pts.Redemptions, r)
	}
	sort.Slice(pts.Redemptions, func(i, j int) bool {
		return pts.Redemptions[i].RedeemedAt.Before(pts.Redemptions[j].RedeemedAt)
	})
	for _, raw := range adjustments.Val() {
		var a domain.PointAdjustment
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return domain.UserPoints{}, fmt.Errorf("decode adjustment: %w", err)
		}
		pts.Adjustments = append(pts.Adjustments, a)
	}
	return pts, nil
}

func (s *PointsStore) RecentRedemptions(ctx context.Context, eventID int64, limit int) ([]domain.Redemption, error) {
	if limit <= 0 {
		return []domain.Redemption{}, nil
	}
	raws, err := s.client.LRange(ctx, eventRedemptionsKey(eventID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load redemptions: %w", err)
	}
	out := make([]domain.Redemption, 0, len(raws))
	for _, raw := range raws {
		var r domain.Redemption
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode redemption: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func claimsKey(userID string) string { return "points:claims:" + userID }

func adjustmentsKey(userID string) string { return "points:adjustments:" + userID }

func totalKey(userID string) string { return "points:total:" + userID }

func eventRedemptionsKey(eventID int64) string {
	return "points:event:" + strconv.FormatInt(eventID, 10) + ":redemptions"
}
