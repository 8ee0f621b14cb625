package models

import "time"

// QuotaState holds the per-owner allowance counters for the current billing
// period. Mutated only by the quota service; period rollover happens in the
// external billing system, which resets period_used.
type QuotaState struct {
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	PeriodLimit int       `json:"period_limit" db:"period_limit"`
	PeriodUsed  int       `json:"period_used" db:"period_used"`
	Unlimited   bool      `json:"unlimited" db:"unlimited"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Remaining returns the unused allowance; meaningless for unlimited owners.
func (q QuotaState) Remaining() int {
	r := q.PeriodLimit - q.PeriodUsed
	if r < 0 {
		return 0
	}
	return r
}

// Exhausted reports whether the owner has no allowance left.
func (q QuotaState) Exhausted() bool {
	return !q.Unlimited && q.PeriodUsed >= q.PeriodLimit
}
