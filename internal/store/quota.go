package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
)

// QuotaStore persists per-user generation counters. Each method is a single
// conditional statement; callers compose them inside one transaction.
type QuotaStore interface {
	// Ensure creates the counter with count 0 in periodStart if it does not exist.
	Ensure(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) error

	// ResetIfStale zeroes the counter and moves it to periodStart when its
	// stored period is older. Reports whether a reset happened.
	ResetIfStale(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) (bool, error)

	// TryIncrement adds n to the count only if the result stays within limit.
	// The boolean is false, with a nil counter, when the ceiling would be exceeded.
	TryIncrement(ctx context.Context, userID uuid.UUID, n, limit int, now time.Time) (*domain.QuotaCounter, bool, error)

	// Decrement subtracts n, never going below zero, when the counter is still
	// in periodStart. A counter in another period is returned unchanged.
	Decrement(ctx context.Context, userID uuid.UUID, n int, periodStart, now time.Time) (*domain.QuotaCounter, error)

	// Get returns the stored counter, or ErrQuotaCounterNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*domain.QuotaCounter, error)

	WithTx(tx *sql.Tx) QuotaStore
}
