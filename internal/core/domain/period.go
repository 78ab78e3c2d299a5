package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
// Only LOCKED blocks postings; CLOSED does not. That asymmetry is a sanctioned
// business rule: closing is a bookkeeping milestone, locking is the write fence.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// AccountingPeriod is a date range postings can be fenced against.
// Periods are created and locked by administrative actions, never by the
// posting engine, but the engine is the sole enforcer of the lock at write time.
type AccountingPeriod struct {
	PeriodID  string       `json:"periodID"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedBy  *string      `json:"closedBy"`
	ClosedAt  *time.Time   `json:"closedAt"`
}
