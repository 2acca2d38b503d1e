package quota_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/service/quota"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/migrations"
)

var june15 = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	quotas  *sqlstore.QuotaStore
	run     store.TxRunner
	emitter *mocks.MockEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "quota.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, db, migrations.SQLite, nil))

	return &fixture{
		quotas:  sqlstore.NewQuotaStore(db, sqlite.Dialect(), nil),
		run:     store.NewTxRunner(db),
		emitter: &mocks.MockEmitter{},
	}
}

func (f *fixture) service(at time.Time) quota.Service {
	return quota.NewService(f.quotas, f.run, 200, f.emitter, nil,
		quota.WithClock(func() time.Time { return at }))
}

func TestCheckAndReserve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(june15)
	userID := uuid.New()

	r, err := svc.CheckAndReserve(ctx, userID, 150)
	require.NoError(t, err)
	assert.True(t, r.Approved)
	assert.Equal(t, 50, r.Remaining)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), r.ResetDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), r.PeriodStart)

	_, err = svc.CheckAndReserve(ctx, userID, 51)
	var exceeded *domain.QuotaExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, 150, exceeded.CurrentCount)
	assert.Equal(t, 200, exceeded.Limit)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), exceeded.ResetDate)

	r, err = svc.CheckAndReserve(ctx, userID, 50)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining)

	assert.Equal(t, []string{events.TypeQuotaReserved, events.TypeQuotaRejected, events.TypeQuotaReserved}, f.emitter.Types())
}

func TestCheckAndReserveValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.service(june15)

	for _, n := range []int{0, -3} {
		_, err := svc.CheckAndReserve(context.Background(), uuid.New(), n)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Empty(t, f.emitter.Events())
}

func TestConcurrentReservations(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.service(june15)
	userID := uuid.New()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckAndReserve(context.Background(), userID, 150)
		}(i)
	}
	wg.Wait()

	approved, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			approved++
		case errors.Is(err, domain.ErrQuotaExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, rejected)

	status, err := svc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 150, status.Used)
}

func TestLazyReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	userID := uuid.New()

	april := time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)
	_, err := f.service(april).CheckAndReserve(ctx, userID, 200)
	require.NoError(t, err)

	status, err := f.service(june15).Status(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, status.Used)
	assert.Equal(t, 200, status.Remaining)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), status.ResetDate)

	stored, err := f.quotas.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), stored.PeriodStart)
	assert.Zero(t, stored.Count)
}

func TestRejectedReservationKeepsReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	userID := uuid.New()

	may := time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)
	_, err := f.service(may).CheckAndReserve(ctx, userID, 100)
	require.NoError(t, err)

	_, err = f.service(june15).CheckAndReserve(ctx, userID, 201)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	stored, err := f.quotas.Get(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, stored.Count)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), stored.PeriodStart)
}

func TestRelease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	userID := uuid.New()
	svc := f.service(june15)

	r, err := svc.CheckAndReserve(ctx, userID, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, r, 4))
	status, err := svc.Status(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 6, status.Used)

	// Never more than was reserved.
	require.NoError(t, svc.Release(ctx, r, 50))
	status, err = svc.Status(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, status.Used)

	require.NoError(t, svc.Release(ctx, nil, 5))
	require.NoError(t, svc.Release(ctx, r, 0))

	t.Run("after the month rolls over", func(t *testing.T) {
		june := f.service(june15)
		r, err := june.CheckAndReserve(ctx, userID, 20)
		require.NoError(t, err)

		july := f.service(time.Date(2024, 7, 2, 8, 0, 0, 0, time.UTC))
		_, err = july.CheckAndReserve(ctx, userID, 3)
		require.NoError(t, err)

		require.NoError(t, july.Release(ctx, r, 20))
		status, err := july.Status(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, status.Used)
	})
}

func TestStorageFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("connection reset")

	quotas := &mocks.MockQuotaStore{
		TryIncrementFn: func(context.Context, uuid.UUID, int, int, time.Time) (*domain.QuotaCounter, bool, error) {
			return nil, false, boom
		},
		GetFn: func(context.Context, uuid.UUID) (*domain.QuotaCounter, error) {
			return nil, boom
		},
		DecrementFn: func(context.Context, uuid.UUID, int, time.Time, time.Time) (*domain.QuotaCounter, error) {
			return nil, boom
		},
	}
	emitter := &mocks.MockEmitter{}
	svc := quota.NewService(quotas, (&mocks.TxRecorder{}).Runner(), 200, emitter, nil,
		quota.WithClock(func() time.Time { return june15 }))

	r, err := svc.CheckAndReserve(ctx, uuid.New(), 5)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, store.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)

	_, err = svc.Status(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrPersistence)

	err = svc.Release(ctx, &quota.Reservation{UserID: uuid.New(), Approved: true, Requested: 5}, 5)
	assert.ErrorIs(t, err, store.ErrPersistence)

	assert.Empty(t, emitter.Events())

	commitFails := &mocks.TxRecorder{CommitErr: store.ErrPersistence}
	svc = quota.NewService(&mocks.MockQuotaStore{
		TryIncrementFn: func(_ context.Context, userID uuid.UUID, n, _ int, _ time.Time) (*domain.QuotaCounter, bool, error) {
			return &domain.QuotaCounter{UserID: userID, Count: n}, true, nil
		},
	}, commitFails.Runner(), 200, emitter, nil)
	_, err = svc.CheckAndReserve(ctx, uuid.New(), 5)
	assert.ErrorIs(t, err, store.ErrPersistence)
	assert.Empty(t, emitter.Events(), "an uncommitted reservation is never reported")
}
