package domain

import "errors"

var (
	// ErrEventNotFound is returned when an event ID does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalidEvent wraps validation failures on event writes.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrUnscoredAnswer indicates no submitted answer matched the quiz.
	ErrUnscoredAnswer = errors.New("answer did not match any archetype")
	// ErrResultNotFound is returned when a user has not taken the quiz.
	ErrResultNotFound = errors.New("archetype result not found")
	// ErrScheduleHidden is returned while the schedule is not published.
	ErrScheduleHidden = errors.New("schedule is not visible")

	// ErrInvalidToken is returned for a malformed or forged claim token.
	ErrInvalidToken = errors.New("invalid claim token")
	// ErrTokenExpired is returned once a claim token's window has passed.
	ErrTokenExpired = errors.New("claim token expired")
	// ErrClaimInactive means the event is not accepting point claims.
	ErrClaimInactive = errors.New("event is not accepting claims")
	// ErrAlreadyClaimed means the user already redeemed this event.
	ErrAlreadyClaimed = errors.New("points already claimed for this event")
	// ErrInvalidAdjustment wraps validation failures on point adjustments.
	ErrInvalidAdjustment = errors.New("invalid point adjustment")
)
