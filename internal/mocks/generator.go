package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-study/internal/generation"
)

// MockGenerator implements generation.Generator.
type MockGenerator struct {
	GenerateFn func(ctx context.Context, text string, count int) ([]generation.Draft, error)

	mu    sync.Mutex
	calls int
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate returns one numbered draft per requested card when GenerateFn is unset.
func (m *MockGenerator) Generate(ctx context.Context, text string, count int) ([]generation.Draft, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, text, count)
	}
	drafts := make([]generation.Draft, count)
	for i := range drafts {
		drafts[i] = generation.Draft{Front: "question " + string(rune('a'+i%26)), Back: "answer"}
	}
	return drafts, nil
}

// Calls returns how many times Generate ran.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
