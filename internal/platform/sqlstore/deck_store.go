package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

type deckRow struct {
	ID        uuid.UUID    `db:"id"`
	UserID    uuid.UUID    `db:"user_id"`
	Name      string       `db:"name"`
	CreatedAt sql.NullTime `db:"created_at"`
}

func (r deckRow) toDomain() *domain.Deck {
	return &domain.Deck{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt.Time.UTC(),
	}
}

var deckColumns = []string{"id", "user_id", "name", "created_at"}

// DeckStore implements store.DeckStore.
type DeckStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.DeckStore = (*DeckStore)(nil)

// NewDeckStore creates a DeckStore on db. If logger is nil, a default logger will be used.
func NewDeckStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "deck_store")),
	}
}

// WithTx implements store.DeckStore.
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &DeckStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.DeckStore.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if deck.ID == uuid.Nil || deck.UserID == uuid.Nil || deck.Name == "" {
		return fmt.Errorf("%w: deck requires id, user and name", store.ErrInvalidEntity)
	}
	if deck.CreatedAt.IsZero() {
		deck.CreatedAt = time.Now().UTC()
	}

	query, args, err := s.dialect.builder().
		Insert("decks").
		Columns(deckColumns...).
		Values(deck.ID, deck.UserID, deck.Name, utc(deck.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return s.dialect.fail("deck", "create", err)
	}

	log.Debug("deck created", slog.String("deck_id", deck.ID.String()))
	return nil
}

// GetForUser implements store.DeckStore.
func (s *DeckStore) GetForUser(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	query, args, err := s.dialect.builder().
		Select(deckColumns...).
		From("decks").
		Where("id = ? AND user_id = ?", deckID, userID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck query: %w", err)
	}

	var row deckRow
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, s.dialect.fail("deck", "get_for_user", err)
	}

	return row.toDomain(), nil
}

// ListByUser implements store.DeckStore.
func (s *DeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	query, args, err := s.dialect.builder().
		Select(deckColumns...).
		From("decks").
		Where("user_id = ?", userID).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck list query: %w", err)
	}

	var rows []deckRow
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, s.dialect.fail("deck", "list_by_user", err)
	}

	decks := make([]*domain.Deck, len(rows))
	for i, row := range rows {
		decks[i] = row.toDomain()
	}
	return decks, nil
}
