package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstOfMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid month",
			in:   time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC),
			want: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "already first",
			in:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non UTC input is normalised",
			in:   time.Date(2026, 3, 1, 1, 0, 0, 0, time.FixedZone("CET", 2*3600)),
			want: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FirstOfMonth(tc.in))
		})
	}
}

func TestNextPeriodStart(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		NextPeriodStart(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestQuotaCounter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	stale := &QuotaCounter{Count: 200, PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	current := &QuotaCounter{Count: 150, PeriodStart: FirstOfMonth(now)}

	assert.True(t, stale.IsStale(now))
	assert.False(t, current.IsStale(now))
	assert.Equal(t, 50, current.Remaining(200))
	assert.Equal(t, 0, stale.Remaining(200))
}

func TestQuotaExceededError(t *testing.T) {
	t.Parallel()

	err := error(&QuotaExceededError{
		CurrentCount: 190,
		Limit:        200,
		ResetDate:    time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "190 of 200")
	assert.Contains(t, err.Error(), "2026-11-01")

	var qe *QuotaExceededError
	assert.True(t, errors.As(err, &qe))
	assert.Equal(t, 200, qe.Limit)
}
