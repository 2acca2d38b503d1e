package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingHandler struct{}

func (panickingHandler) HandleEvent(context.Context, *Event) error { panic("boom") }

func newTestEvent(t *testing.T) *Event {
	t.Helper()
	event, err := NewEvent(TypeCardsGenerated, uuid.New(), CardsGenerated{Requested: 3, Created: 3}, time.Now())
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errFirst := errors.New("first handler down")
	errSecond := errors.New("second handler down")

	tests := []struct {
		name     string
		handlers func() []EventHandler
		wantErrs []error
		wantMsg  string
	}{
		{name: "no handlers", handlers: func() []EventHandler { return nil }},
		{
			name: "all succeed",
			handlers: func() []EventHandler {
				return []EventHandler{&MockEventHandler{}, &MockEventHandler{}}
			},
		},
		{
			name: "failures are joined",
			handlers: func() []EventHandler {
				return []EventHandler{
					&MockEventHandler{HandlerError: errFirst},
					&MockEventHandler{},
					&MockEventHandler{HandlerError: errSecond},
				}
			},
			wantErrs: []error{errFirst, errSecond},
		},
		{
			name: "panic is contained",
			handlers: func() []EventHandler {
				return []EventHandler{panickingHandler{}, &MockEventHandler{}}
			},
			wantMsg: "event handler panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			emitter := NewInMemoryEventEmitter(logger)
			handlers := tt.handlers()
			for _, h := range handlers {
				emitter.RegisterHandler(h)
			}

			event := newTestEvent(t)
			err := emitter.EmitEvent(context.Background(), event)

			switch {
			case tt.wantMsg != "":
				assert.EqualError(t, err, tt.wantMsg)
			case len(tt.wantErrs) > 0:
				for _, want := range tt.wantErrs {
					assert.ErrorIs(t, err, want)
				}
			default:
				assert.NoError(t, err)
			}

			for _, h := range handlers {
				if mock, ok := h.(*MockEventHandler); ok {
					assert.Equal(t, 1, mock.HandledCount)
					assert.Same(t, event, mock.LastEvent)
				}
			}
		})
	}
}
