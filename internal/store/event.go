package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventRecord is one row of the append-only event log.
type EventRecord struct {
	ID         uuid.UUID `db:"id"`
	Type       string    `db:"event_type"`
	UserID     uuid.UUID `db:"user_id"`
	Payload    []byte    `db:"payload"`
	OccurredAt time.Time `db:"occurred_at"`
}

// EventStore appends to the event log.
type EventStore interface {
	Append(ctx context.Context, record *EventRecord) error

	// ListByUser returns the most recent records for userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*EventRecord, error)
}
