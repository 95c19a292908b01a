// Package fellowship holds the pure status computations for the 100-day
// fellowship program. Nothing in this package performs I/O; callers supply
// the start date, the evaluation instant and the proof count, and the
// persistence layer applies any transitions this package approves.
package fellowship

import (
	"errors"
	"time"

	"vamo/fellowship-app/internal/domain"
)

const (
	// DurationDays is the fixed length of every fellowship.
	DurationDays = 100

	// CustomerQuota is the number of customer proofs required to pass.
	CustomerQuota = 10

	millisPerDay = 86_400_000
)

// --- Error Definitions ---
var (
	ErrInvalidState   = errors.New("fellowship is not active")
	ErrQuotaNotMet    = errors.New("customer quota not met")
	ErrMalformedInput = errors.New("fellowship start date is not set")
)

// Snapshot is the deterministic status view returned by GetStatus.
type Snapshot struct {
	DaysRemaining      int                     `json:"daysRemaining"`
	ProgressPercentage float64                 `json:"progressPercentage"`
	IsExpired          bool                    `json:"isExpired"`
	HasPassed          bool                    `json:"hasPassed"`
	CanSubmit          bool                    `json:"canSubmit"`
	Status             domain.FellowshipStatus `json:"status"`
}

// daysPassed is the number of whole days elapsed between start and now,
// using floor division of elapsed milliseconds. Instant-to-instant on the
// absolute timescale; no timezone adjustment.
func daysPassed(start, now time.Time) int {
	ms := now.Sub(start).Milliseconds()
	d := ms / millisPerDay
	if ms < 0 && ms%millisPerDay != 0 {
		d-- // true floor for pre-start instants
	}
	return int(d)
}

// DaysRemaining returns how many whole days are left before the fellowship
// closes. Never negative; 0 once 100 full days have elapsed.
func DaysRemaining(start, now time.Time) int {
	remaining := DurationDays - daysPassed(start, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProgressPercentage returns completion in [0,100]. It reaches exactly 100
// at day 100 and clamps there.
func ProgressPercentage(start, now time.Time) float64 {
	p := float64(daysPassed(start, now)) * 100 / DurationDays
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// IsExpired reports whether the fellowship window has closed.
func IsExpired(start, now time.Time) bool {
	return DaysRemaining(start, now) == 0
}

// GetStatus aggregates the clock functions into a single snapshot.
// A zero start date fails fast rather than producing a silently wrong
// day count.
func GetStatus(start, now time.Time, proofCount int, current domain.FellowshipStatus) (Snapshot, error) {
	if start.IsZero() {
		return Snapshot{}, ErrMalformedInput
	}
	expired := IsExpired(start, now)
	return Snapshot{
		DaysRemaining:      DaysRemaining(start, now),
		ProgressPercentage: ProgressPercentage(start, now),
		IsExpired:          expired,
		HasPassed:          proofCount >= CustomerQuota,
		CanSubmit:          expired && current == domain.FellowshipActive,
		Status:             current,
	}, nil
}

// ValidateManualSubmit gates the user-initiated "submit now" action: the
// fellowship must still be active and the quota must be met. The deadline
// itself is not checked here; submitting early is the point.
func ValidateManualSubmit(current domain.FellowshipStatus, proofCount int) error {
	if current != domain.FellowshipActive {
		return ErrInvalidState
	}
	if proofCount < CustomerQuota {
		return ErrQuotaNotMet
	}
	return nil
}

// ShouldAutoSubmit gates the periodic sweep: an active fellowship past its
// deadline is force-submitted regardless of quota. The sweep is a hard
// cutoff; only the manual path enforces the quota.
func ShouldAutoSubmit(start, now time.Time, current domain.FellowshipStatus) bool {
	return current == domain.FellowshipActive && IsExpired(start, now)
}

// CanTransition encodes the status state machine:
//
//	active -> submitted (sweep or manual submit)
//	submitted -> approved | rejected (admin review)
//
// approved and rejected are terminal.
func CanTransition(from, to domain.FellowshipStatus) bool {
	switch from {
	case domain.FellowshipActive:
		return to == domain.FellowshipSubmitted
	case domain.FellowshipSubmitted:
		return to == domain.FellowshipApproved || to == domain.FellowshipRejected
	default:
		return false
	}
}
