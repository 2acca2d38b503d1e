package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deck groups cards and carries their ownership.
type Deck struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DeckDue is the number of due cards in one deck.
type DeckDue struct {
	DeckID   uuid.UUID `json:"deck_id"`
	DeckName string    `json:"deck_name"`
	DueCount int       `json:"due_count"`
}

// DueSummary is computed per request and never persisted.
type DueSummary struct {
	TotalDue       int        `json:"total_due"`
	NextReviewDate *time.Time `json:"next_review_date"`
	PerDeck        []DeckDue  `json:"per_deck"`
}
