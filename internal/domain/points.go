package domain

import "time"

// ClaimToken is the short-lived secret shown as a QR code at a workshop.
// ExpiresIn is the whole seconds left at issue time.
type ClaimToken struct {
	Token     string    `json:"token"`
	EventID   int64     `json:"eventId"`
	ExpiresAt time.Time `json:"expiresAt"`
	ExpiresIn int       `json:"expiresIn"`
}

// Redemption records one user's claim of an event's points.
type Redemption struct {
	UserID        string    `json:"userId"`
	EventID       int64     `json:"eventId"`
	EventTitle    string    `json:"eventTitle"`
	PointsAwarded int       `json:"pointsAwarded"`
	RedeemedAt    time.Time `json:"redeemedAt"`
}

// AdjustmentType says why an admin changed a user's points.
type AdjustmentType string

const (
	AdjustmentManual AdjustmentType = "manual_adjustment"
	// AdjustmentPrize spends points on a prize and is always negative.
	AdjustmentPrize AdjustmentType = "prize_redemption"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	return t == AdjustmentManual || t == AdjustmentPrize
}

// PointAdjustment is a ledger entry written by an admin.
type PointAdjustment struct {
	UserID     string         `json:"userId"`
	Delta      int            `json:"delta"`
	Type       AdjustmentType `json:"adjustmentType"`
	Reason     string         `json:"reason"`
	AdjustedAt time.Time      `json:"adjustedAt"`
}

// UserPoints is a user's balance with the ledger behind it. TotalPoints is
// the sum of every redemption and adjustment.
type UserPoints struct {
	UserID      string            `json:"userId"`
	TotalPoints int               `json:"totalPoints"`
	Redemptions []Redemption      `json:"redemptions"`
	Adjustments []PointAdjustment `json:"adjustments"`
}

// ClaimResult is returned to the user after a successful claim.
type ClaimResult struct {
	PointsAwarded int    `json:"pointsAwarded"`
	TotalPoints   int    `json:"totalPoints"`
	EventTitle    string `json:"eventTitle"`
}
