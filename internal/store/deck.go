package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
)

// DeckStore persists decks. Deck management itself lives in another
// service; this store only needs enough to resolve ownership.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetForUser returns the deck if it exists and belongs to userID.
	// Returns ErrDeckNotFound otherwise, without distinguishing the two cases.
	GetForUser(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// ListByUser returns the user's decks ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	WithTx(tx *sql.Tx) DeckStore
}
