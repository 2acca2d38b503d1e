package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event types written to the event log.
const (
	TypeReviewSubmitted = "review.submitted"
	TypeQuotaReserved   = "quota.reserved"
	TypeQuotaRejected   = "quota.rejected"
	TypeCardsGenerated  = "cards.generated"
)

// Event is a single occurrence worth recording for a user.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	UserID uuid.UUID `json:"user_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the specified type and payload.
func NewEvent(eventType string, userID uuid.UUID, payload interface{}, occurredAt time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Payload:    payloadBytes,
		OccurredAt: occurredAt.UTC(),
	}, nil
}

// ReviewSubmitted is the payload of TypeReviewSubmitted.
type ReviewSubmitted struct {
	CardID     uuid.UUID `json:"card_id"`
	Grade      int       `json:"grade"`
	State      string    `json:"state"`
	NextReview time.Time `json:"next_review"`
}

// QuotaChanged is the payload of TypeQuotaReserved and TypeQuotaRejected.
type QuotaChanged struct {
	Requested int `json:"requested"`
	Count     int `json:"count"`
	Limit     int `json:"limit"`
}

// CardsGenerated is the payload of TypeCardsGenerated.
type CardsGenerated struct {
	DeckID    uuid.UUID `json:"deck_id"`
	Requested int       `json:"requested"`
	Created   int       `json:"created"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// NopEmitter drops every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *Event) error { return nil }

// Emit builds an event and publishes it. Events are best effort: failures are
// logged at warn and never returned.
func Emit(
	ctx context.Context,
	emitter EventEmitter,
	log *slog.Logger,
	eventType string,
	userID uuid.UUID,
	payload interface{},
	now time.Time,
) {
	if emitter == nil {
		return
	}

	event, err := NewEvent(eventType, userID, payload, now)
	if err != nil {
		log.Warn("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}
