package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
)

// MockCardStore implements store.CardStore with function fields.
// Unset functions return zero values. WithTx returns the same mock.
type MockCardStore struct {
	CreateMultipleFn      func(ctx context.Context, cards []*domain.Card) error
	GetForUserFn          func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	GetForUserForUpdateFn func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	UpdateScheduleFn      func(ctx context.Context, card *domain.Card) error
	ListDueFn             func(ctx context.Context, q store.DueQuery) ([]*domain.Card, error)
	CountDueFn            func(ctx context.Context, q store.DueQuery) (int, error)
	CountDueByDeckFn      func(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.DeckDue, error)
	NextReviewAfterFn     func(ctx context.Context, userID uuid.UUID, now time.Time) (*time.Time, error)

	mu      sync.Mutex
	Updated []*domain.Card
	Created []*domain.Card
	TxCalls int
}

var _ store.CardStore = (*MockCardStore)(nil)

func (m *MockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if m.CreateMultipleFn != nil {
		if err := m.CreateMultipleFn(ctx, cards); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Created = append(m.Created, cards...)
	m.mu.Unlock()
	return nil
}

func (m *MockCardStore) GetForUser(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, userID, cardID)
	}
	return nil, store.ErrCardNotFound
}

// GetForUserForUpdate falls back to GetForUserFn when unset.
func (m *MockCardStore) GetForUserForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetForUserForUpdateFn != nil {
		return m.GetForUserForUpdateFn(ctx, userID, cardID)
	}
	return m.GetForUser(ctx, userID, cardID)
}

func (m *MockCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	if m.UpdateScheduleFn != nil {
		if err := m.UpdateScheduleFn(ctx, card); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Updated = append(m.Updated, card)
	m.mu.Unlock()
	return nil
}

func (m *MockCardStore) ListDue(ctx context.Context, q store.DueQuery) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, q)
	}
	return nil, nil
}

func (m *MockCardStore) CountDue(ctx context.Context, q store.DueQuery) (int, error) {
	if m.CountDueFn != nil {
		return m.CountDueFn(ctx, q)
	}
	return 0, nil
}

func (m *MockCardStore) CountDueByDeck(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.DeckDue, error) {
	if m.CountDueByDeckFn != nil {
		return m.CountDueByDeckFn(ctx, userID, now)
	}
	return nil, nil
}

func (m *MockCardStore) NextReviewAfter(ctx context.Context, userID uuid.UUID, now time.Time) (*time.Time, error) {
	if m.NextReviewAfterFn != nil {
		return m.NextReviewAfterFn(ctx, userID, now)
	}
	return nil, nil
}

func (m *MockCardStore) WithTx(*sql.Tx) store.CardStore {
	m.mu.Lock()
	m.TxCalls++
	m.mu.Unlock()
	return m
}

// MockDeckStore implements store.DeckStore with function fields.
type MockDeckStore struct {
	CreateFn     func(ctx context.Context, deck *domain.Deck) error
	GetForUserFn func(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)
}

var _ store.DeckStore = (*MockDeckStore)(nil)

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}
	return nil
}

func (m *MockDeckStore) GetForUser(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, userID, deckID)
	}
	return nil, store.ErrDeckNotFound
}

func (m *MockDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockDeckStore) WithTx(*sql.Tx) store.DeckStore { return m }

// OwnedDecks returns a GetForUserFn that finds decks owned by userID.
func OwnedDecks(userID uuid.UUID, decks ...*domain.Deck) func(context.Context, uuid.UUID, uuid.UUID) (*domain.Deck, error) {
	return func(_ context.Context, u, deckID uuid.UUID) (*domain.Deck, error) {
		if u != userID {
			return nil, store.ErrDeckNotFound
		}
		for _, d := range decks {
			if d.ID == deckID {
				return d, nil
			}
		}
		return nil, store.ErrDeckNotFound
	}
}

// MockEventStore implements store.EventStore in memory.
type MockEventStore struct {
	AppendErr error

	mu      sync.Mutex
	Records []*store.EventRecord
}

var _ store.EventStore = (*MockEventStore)(nil)

func (m *MockEventStore) Append(_ context.Context, record *store.EventRecord) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, record)
	return nil
}

func (m *MockEventStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*store.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.EventRecord
	for i := len(m.Records) - 1; i >= 0; i-- {
		if m.Records[i].UserID == userID {
			out = append(out, m.Records[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Snapshot returns a copy of the appended records.
func (m *MockEventStore) Snapshot() []*store.EventRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*store.EventRecord(nil), m.Records...)
}

// MockQuotaStore implements store.QuotaStore with function fields.
type MockQuotaStore struct {
	EnsureFn       func(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) error
	ResetIfStaleFn func(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) (bool, error)
	TryIncrementFn func(ctx context.Context, userID uuid.UUID, n, limit int, now time.Time) (*domain.QuotaCounter, bool, error)
	DecrementFn    func(ctx context.Context, userID uuid.UUID, n int, periodStart, now time.Time) (*domain.QuotaCounter, error)
	GetFn          func(ctx context.Context, userID uuid.UUID) (*domain.QuotaCounter, error)
}

var _ store.QuotaStore = (*MockQuotaStore)(nil)

func (m *MockQuotaStore) Ensure(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) error {
	if m.EnsureFn != nil {
		return m.EnsureFn(ctx, userID, periodStart, now)
	}
	return nil
}

func (m *MockQuotaStore) ResetIfStale(ctx context.Context, userID uuid.UUID, periodStart, now time.Time) (bool, error) {
	if m.ResetIfStaleFn != nil {
		return m.ResetIfStaleFn(ctx, userID, periodStart, now)
	}
	return false, nil
}

func (m *MockQuotaStore) TryIncrement(
	ctx context.Context,
	userID uuid.UUID,
	n, limit int,
	now time.Time,
) (*domain.QuotaCounter, bool, error) {
	if m.TryIncrementFn != nil {
		return m.TryIncrementFn(ctx, userID, n, limit, now)
	}
	return nil, false, nil
}

func (m *MockQuotaStore) Decrement(
	ctx context.Context,
	userID uuid.UUID,
	n int,
	periodStart, now time.Time,
) (*domain.QuotaCounter, error) {
	if m.DecrementFn != nil {
		return m.DecrementFn(ctx, userID, n, periodStart, now)
	}
	return nil, store.ErrQuotaCounterNotFound
}

func (m *MockQuotaStore) Get(ctx context.Context, userID uuid.UUID) (*domain.QuotaCounter, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return nil, store.ErrQuotaCounterNotFound
}

func (m *MockQuotaStore) WithTx(*sql.Tx) store.QuotaStore { return m }
