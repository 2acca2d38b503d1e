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

// cardRow mirrors the cards table.
type cardRow struct {
	ID            uuid.UUID    `db:"id"`
	DeckID        uuid.UUID    `db:"deck_id"`
	Front         string       `db:"front"`
	Back          string       `db:"back"`
	Stability     float64      `db:"stability"`
	Difficulty    float64      `db:"difficulty"`
	ElapsedDays   int          `db:"elapsed_days"`
	ScheduledDays int          `db:"scheduled_days"`
	Reps          int          `db:"reps"`
	Lapses        int          `db:"lapses"`
	LearningStep  int          `db:"learning_step"`
	State         string       `db:"state"`
	LastReview    sql.NullTime `db:"last_review"`
	NextReview    sql.NullTime `db:"next_review"`
	CreatedAt     sql.NullTime `db:"created_at"`
	UpdatedAt     sql.NullTime `db:"updated_at"`
}

func (r cardRow) toDomain() *domain.Card {
	card := &domain.Card{
		ID:            r.ID,
		DeckID:        r.DeckID,
		Front:         r.Front,
		Back:          r.Back,
		Stability:     r.Stability,
		Difficulty:    r.Difficulty,
		ElapsedDays:   r.ElapsedDays,
		ScheduledDays: r.ScheduledDays,
		Reps:          r.Reps,
		Lapses:        r.Lapses,
		LearningStep:  r.LearningStep,
		State:         domain.CardState(r.State),
		NextReview:    r.NextReview.Time.UTC(),
		CreatedAt:     r.CreatedAt.Time.UTC(),
		UpdatedAt:     r.UpdatedAt.Time.UTC(),
	}
	if r.LastReview.Valid {
		last := r.LastReview.Time.UTC()
		card.LastReview = &last
	}
	return card
}

var cardColumns = []string{
	"id", "deck_id", "front", "back",
	"stability", "difficulty", "elapsed_days", "scheduled_days",
	"reps", "lapses", "learning_step", "state",
	"last_review", "next_review", "created_at", "updated_at",
}

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// CardStore implements store.CardStore.
type CardStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore creates a CardStore on db. If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "card_store")),
	}
}

// WithTx implements store.CardStore.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// CreateMultiple implements store.CardStore.
// All cards are inserted with one statement.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	insert := s.dialect.builder().Insert("cards").Columns(cardColumns...)
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		insert = insert.Values(
			card.ID, card.DeckID, card.Front, card.Back,
			card.Stability, card.Difficulty, card.ElapsedDays, card.ScheduledDays,
			card.Reps, card.Lapses, card.LearningStep, string(card.State),
			utcPtr(card.LastReview), utc(card.NextReview), utc(card.CreatedAt), utc(card.UpdatedAt),
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create cards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cards)))
		return s.dialect.fail("card", "create_multiple", err)
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	return nil
}

// GetForUser implements store.CardStore.
func (s *CardStore) GetForUser(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.getForUser(ctx, userID, cardID, false)
}

// GetForUserForUpdate implements store.CardStore.
func (s *CardStore) GetForUserForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.getForUser(ctx, userID, cardID, true)
}

func (s *CardStore) getForUser(ctx context.Context, userID, cardID uuid.UUID, lock bool) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := s.dialect.builder().
		Select(qualified("c", cardColumns)...).
		From("cards c").
		Join("decks d ON d.id = c.deck_id").
		Where("c.id = ? AND d.user_id = ?", cardID, userID)
	if lock && s.dialect.SupportsRowLocks {
		q = q.Suffix("FOR UPDATE OF c")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	var row cardRow
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			log.Debug("card not found for user",
				slog.String("card_id", cardID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, s.dialect.fail("card", "get_for_user", err)
	}

	return row.toDomain(), nil
}

// UpdateSchedule implements store.CardStore.
func (s *CardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.ValidateSchedule(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := s.dialect.builder().
		Update("cards").
		SetMap(map[string]interface{}{
			"stability":      card.Stability,
			"difficulty":     card.Difficulty,
			"elapsed_days":   card.ElapsedDays,
			"scheduled_days": card.ScheduledDays,
			"reps":           card.Reps,
			"lapses":         card.Lapses,
			"learning_step":  card.LearningStep,
			"state":          string(card.State),
			"last_review":    utcPtr(card.LastReview),
			"next_review":    utc(card.NextReview),
			"updated_at":     utc(card.UpdatedAt),
		}).
		Where("id = ?", card.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return s.dialect.fail("card", "update_schedule", err)
	}

	if err := checkRowsAffected(result, store.ErrCardNotFound, s.dialect); err != nil {
		return err
	}

	log.Debug("card schedule updated",
		slog.String("card_id", card.ID.String()),
		slog.String("state", string(card.State)),
		slog.Time("next_review", card.NextReview))
	return nil
}

func (s *CardStore) dueSelect(columns []string, q store.DueQuery) sq.SelectBuilder {
	b := s.dialect.builder().
		Select(columns...).
		From("cards c").
		Join("decks d ON d.id = c.deck_id").
		Where("d.user_id = ?", q.UserID).
		Where("c.next_review <= ?", utc(q.Now))
	if q.DeckID != nil {
		b = b.Where("c.deck_id = ?", *q.DeckID)
	}
	return b
}

// ListDue implements store.CardStore.
func (s *CardStore) ListDue(ctx context.Context, q store.DueQuery) ([]*domain.Card, error) {
	b := s.dueSelect(qualified("c", cardColumns), q).OrderBy("c.next_review ASC", "c.id ASC")
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build due query: %w", err)
	}

	var rows []cardRow
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", q.UserID.String()))
		return nil, s.dialect.fail("card", "list_due", err)
	}

	cards := make([]*domain.Card, len(rows))
	for i, row := range rows {
		cards[i] = row.toDomain()
	}
	return cards, nil
}

// CountDue implements store.CardStore.
func (s *CardStore) CountDue(ctx context.Context, q store.DueQuery) (int, error) {
	query, args, err := s.dueSelect([]string{"COUNT(*)"}, q).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build due count query: %w", err)
	}

	var count int
	if err := sqlscan.Get(ctx, s.db, &count, query, args...); err != nil {
		return 0, s.dialect.fail("card", "count_due", err)
	}
	return count, nil
}

type deckDueRow struct {
	DeckID   uuid.UUID `db:"deck_id"`
	DeckName string    `db:"deck_name"`
	DueCount int       `db:"due_count"`
}

// CountDueByDeck implements store.CardStore.
func (s *CardStore) CountDueByDeck(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.DeckDue, error) {
	query, args, err := s.dueSelect(
		[]string{"d.id AS deck_id", "d.name AS deck_name", "COUNT(c.id) AS due_count"},
		store.DueQuery{UserID: userID, Now: now},
	).GroupBy("d.id", "d.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build per-deck due query: %w", err)
	}

	var rows []deckDueRow
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, s.dialect.fail("card", "count_due_by_deck", err)
	}

	out := make([]domain.DeckDue, len(rows))
	for i, row := range rows {
		out[i] = domain.DeckDue{DeckID: row.DeckID, DeckName: row.DeckName, DueCount: row.DueCount}
	}
	return out, nil
}

// NextReviewAfter implements store.CardStore.
func (s *CardStore) NextReviewAfter(ctx context.Context, userID uuid.UUID, now time.Time) (*time.Time, error) {
	query, args, err := s.dialect.builder().
		Select("c.next_review").
		From("cards c").
		Join("decks d ON d.id = c.deck_id").
		Where("d.user_id = ?", userID).
		Where("c.next_review > ?", utc(now)).
		OrderBy("c.next_review ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build next review query: %w", err)
	}

	var next sql.NullTime
	if err := sqlscan.Get(ctx, s.db, &next, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, nil
		}
		return nil, s.dialect.fail("card", "next_review_after", err)
	}
	if !next.Valid {
		return nil, nil
	}

	t := next.Time.UTC()
	return &t, nil
}

// checkRowsAffected returns notFound when the statement touched no rows.
func checkRowsAffected(result sql.Result, notFound error, dialect Dialect) error {
	n, err := result.RowsAffected()
	if err != nil {
		return dialect.MapError(err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
