package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuotaCounter tracks AI-assisted generation for one user in one calendar month.
// PeriodStart is always midnight UTC on the first day of a month.
type QuotaCounter struct {
	UserID      uuid.UUID `json:"user_id"`
	Count       int       `json:"count"`
	PeriodStart time.Time `json:"period_start"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FirstOfMonth returns midnight UTC on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextPeriodStart returns the first day of the month after periodStart.
func NextPeriodStart(periodStart time.Time) time.Time {
	return FirstOfMonth(periodStart).AddDate(0, 1, 0)
}

// IsStale reports whether the counter belongs to a month before now's month.
func (q *QuotaCounter) IsStale(now time.Time) bool {
	return q.PeriodStart.Before(FirstOfMonth(now))
}

// Remaining returns how many units are still available under limit.
func (q *QuotaCounter) Remaining(limit int) int {
	if q.Count >= limit {
		return 0
	}
	return limit - q.Count
}

// QuotaExceededError is returned when a reservation would push the counter
// past its monthly limit. ResetDate is when capacity returns.
type QuotaExceededError struct {
	CurrentCount int
	Limit        int
	ResetDate    time.Time
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %d of %d used, resets %s",
		ErrQuotaExceeded, e.CurrentCount, e.Limit, e.ResetDate.Format(time.DateOnly))
}

// Is matches ErrQuotaExceeded.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
