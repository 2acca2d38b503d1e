package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/store"
)

type eventRow struct {
	ID         uuid.UUID    `db:"id"`
	Type       string       `db:"event_type"`
	UserID     uuid.UUID    `db:"user_id"`
	Payload    string       `db:"payload"`
	OccurredAt sql.NullTime `db:"occurred_at"`
}

var eventColumns = []string{"id", "event_type", "user_id", "payload", "occurred_at"}

// EventStore implements store.EventStore.
type EventStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.EventStore = (*EventStore)(nil)

// NewEventStore creates an EventStore on db. If logger is nil, a default logger will be used.
func NewEventStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *EventStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "event_store")),
	}
}

// Append implements store.EventStore.
func (s *EventStore) Append(ctx context.Context, record *store.EventRecord) error {
	if record.ID == uuid.Nil || record.Type == "" {
		return fmt.Errorf("%w: event requires id and type", store.ErrInvalidEntity)
	}
	payload := string(record.Payload)
	if payload == "" {
		payload = "{}"
	}

	query, args, err := s.dialect.builder().
		Insert("event_log").
		Columns(eventColumns...).
		Values(record.ID, record.Type, record.UserID, payload, utc(record.OccurredAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build event insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.dialect.fail("event", "append", err)
	}
	return nil
}

// ListByUser implements store.EventStore.
func (s *EventStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*store.EventRecord, error) {
	b := s.dialect.builder().
		Select(eventColumns...).
		From("event_log").
		Where("user_id = ?", userID).
		OrderBy("occurred_at DESC", "id ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build event query: %w", err)
	}

	var rows []eventRow
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, s.dialect.fail("event", "list_by_user", err)
	}

	records := make([]*store.EventRecord, len(rows))
	for i, row := range rows {
		records[i] = &store.EventRecord{
			ID:         row.ID,
			Type:       row.Type,
			UserID:     row.UserID,
			Payload:    []byte(row.Payload),
			OccurredAt: row.OccurredAt.Time.UTC(),
		}
	}
	return records, nil
}
