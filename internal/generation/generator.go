package generation

import (
	"context"
	"strings"
)

// Draft is one question/answer pair proposed by a language model.
type Draft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Valid reports whether both sides carry content.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Front) != "" && strings.TrimSpace(d.Back) != ""
}

// Generator drafts flashcards from free text.
type Generator interface {
	// Generate returns at most count drafts built from text. Implementations
	// return errors wrapping the sentinels in errors.go.
	Generate(ctx context.Context, text string, count int) ([]Draft, error)
}
