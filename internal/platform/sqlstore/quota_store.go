package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

type quotaRow struct {
	UserID      uuid.UUID    `db:"user_id"`
	Count       int          `db:"count"`
	PeriodStart sql.NullTime `db:"period_start"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

func (r quotaRow) toDomain() *domain.QuotaCounter {
	return &domain.QuotaCounter{
		UserID:      r.UserID,
		Count:       r.Count,
		PeriodStart: r.PeriodStart.Time.UTC(),
		UpdatedAt:   r.UpdatedAt.Time.UTC(),
	}
}

var quotaColumns = []string{"user_id", "count", "period_start", "updated_at"}

// QuotaStore implements store.QuotaStore.
type QuotaStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.QuotaStore = (*QuotaStore)(nil)

// NewQuotaStore creates a QuotaStore on db. If logger is nil, a default logger will be used.
func NewQuotaStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *QuotaStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotaStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "quota_store")),
	}
}

// WithTx implements store.QuotaStore.
func (s *QuotaStore) WithTx(tx *sql.Tx) store.QuotaStore {
	return &QuotaStore{db: tx, dialect: s.dialect, logger: s.logger}
}

func (s *QuotaStore) exec(ctx context.Context, op string, b interface {
	ToSql() (string, []interface{}, error)
}) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quota %s: %w", op, err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("quota statement failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, s.dialect.fail("quota_counter", op, err)
	}
	return result, nil
}

// Ensure implements store.QuotaStore.
func (s *QuotaStore) Ensure(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) error {
	_, err := s.exec(ctx, "ensure", s.dialect.builder().
		Insert("quota_counters").
		Columns(quotaColumns...).
		Values(userID, 0, utc(periodStart), utc(now)).
		Suffix("ON CONFLICT (user_id) DO NOTHING"))
	return err
}

// ResetIfStale implements store.QuotaStore.
func (s *QuotaStore) ResetIfStale(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) (bool, error) {
	result, err := s.exec(ctx, "reset", s.dialect.builder().
		Update("quota_counters").
		Set("count", 0).
		Set("period_start", utc(periodStart)).
		Set("updated_at", utc(now)).
		Where("user_id = ?", userID).
		Where("period_start < ?", utc(periodStart)))
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, s.dialect.fail("quota_counter", "reset_if_stale", err)
	}
	if n > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("quota counter reset for new period",
			slog.String("user_id", userID.String()),
			slog.Time("period_start", periodStart))
	}
	return n > 0, nil
}

// TryIncrement implements store.QuotaStore.
// The ceiling is part of the UPDATE predicate, so concurrent callers cannot
// both pass it.
func (s *QuotaStore) TryIncrement(
	ctx context.Context,
	userID uuid.UUID,
	n, limit int,
	now time.Time,
) (*domain.QuotaCounter, bool, error) {
	result, err := s.exec(ctx, "increment", s.dialect.builder().
		Update("quota_counters").
		Set("count", sq.Expr("count + ?", n)).
		Set("updated_at", utc(now)).
		Where("user_id = ?", userID).
		Where("count + ? <= ?", n, limit))
	if err != nil {
		return nil, false, err
	}

	if err := checkRowsAffected(result, store.ErrQuotaCounterNotFound, s.dialect); err != nil {
		if store.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	counter, err := s.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return counter, true, nil
}

// Decrement implements store.QuotaStore.
func (s *QuotaStore) Decrement(
	ctx context.Context,
	userID uuid.UUID,
	n int,
	periodStart, now time.Time,
) (*domain.QuotaCounter, error) {
	if _, err := s.exec(ctx, "decrement", s.dialect.builder().
		Update("quota_counters").
		Set("count", sq.Expr("CASE WHEN count >= ? THEN count - ? ELSE 0 END", n, n)).
		Set("updated_at", utc(now)).
		Where("user_id = ?", userID).
		Where("period_start = ?", utc(periodStart))); err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// Get implements store.QuotaStore.
func (s *QuotaStore) Get(ctx context.Context, userID uuid.UUID) (*domain.QuotaCounter, error) {
	query, args, err := s.dialect.builder().
		Select(quotaColumns...).
		From("quota_counters").
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quota query: %w", err)
	}

	var row quotaRow
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, store.ErrQuotaCounterNotFound
		}
		return nil, s.dialect.fail("quota_counter", "get", err)
	}
	return row.toDomain(), nil
}
