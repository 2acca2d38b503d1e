package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-study/internal/events"
)

// MockEmitter records emitted events.
type MockEmitter struct {
	Err error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventEmitter = (*MockEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (m *MockEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns the emitted events in order.
func (m *MockEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}

// Types returns the type of each emitted event in order.
func (m *MockEmitter) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}
