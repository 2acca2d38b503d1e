package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/store"
)

// EventLogTask appends one event to the event log.
type EventLogTask struct {
	event *events.Event
	store store.EventStore
}

var _ Task = (*EventLogTask)(nil)

// NewEventLogTask wraps event for writing to eventStore.
func NewEventLogTask(event *events.Event, eventStore store.EventStore) *EventLogTask {
	return &EventLogTask{event: event, store: eventStore}
}

// ID returns the id of the wrapped event.
func (t *EventLogTask) ID() uuid.UUID { return t.event.ID }

// Type implements Task.
func (t *EventLogTask) Type() string { return TaskTypeEventLog }

// Execute writes the event. The event id is the row id, so a retried task
// fails as a duplicate instead of writing twice.
func (t *EventLogTask) Execute(ctx context.Context) error {
	return t.store.Append(ctx, &store.EventRecord{
		ID:         t.event.ID,
		Type:       t.event.Type,
		UserID:     t.event.UserID,
		Payload:    t.event.Payload,
		OccurredAt: t.event.OccurredAt,
	})
}

// EventLogHandler implements events.EventHandler by queueing every event
// for the event log. It never blocks the emitting request.
type EventLogHandler struct {
	queue  TaskQueueWriter
	store  store.EventStore
	logger *slog.Logger
}

var _ events.EventHandler = (*EventLogHandler)(nil)

// NewEventLogHandler creates a handler that enqueues onto queue.
// If logger is nil, a default logger will be used.
func NewEventLogHandler(queue TaskQueueWriter, eventStore store.EventStore, logger *slog.Logger) *EventLogHandler {
	if queue == nil {
		panic("queue cannot be nil")
	}
	if eventStore == nil {
		panic("eventStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogHandler{
		queue:  queue,
		store:  eventStore,
		logger: logger.With(slog.String("component", "event_log_handler")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *EventLogHandler) HandleEvent(_ context.Context, event *events.Event) error {
	if err := h.queue.Enqueue(NewEventLogTask(event, h.store)); err != nil {
		h.logger.Warn("dropping event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to queue event %s: %w", event.ID, err)
	}
	return nil
}
