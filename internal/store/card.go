package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
)

// DueQuery selects the cards due for one user.
type DueQuery struct {
	UserID uuid.UUID
	// DeckID restricts the query to one deck when set. The caller is
	// responsible for checking ownership first.
	DeckID *uuid.UUID
	Now    time.Time
	Limit  int
}

// CardStore defines the interface for card data persistence.
// Ownership flows through the deck: every user-scoped method joins cards to
// decks and filters by decks.user_id.
type CardStore interface {
	// CreateMultiple saves multiple cards to the store.
	// It should run inside a transaction so a failure leaves no partial batch:
	//
	//	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//	    return cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//	})
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetForUser retrieves a card whose deck belongs to userID.
	// Returns ErrCardNotFound when the card is missing or owned by someone else.
	GetForUser(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// GetForUserForUpdate is GetForUser that also locks the row until the
	// surrounding transaction ends, on dialects that support row locks.
	GetForUserForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// UpdateSchedule writes every memory-model field of card in a single statement.
	// Returns ErrCardNotFound if no row was updated.
	UpdateSchedule(ctx context.Context, card *domain.Card) error

	// ListDue returns up to q.Limit cards with next_review <= q.Now, ordered by
	// next_review ascending then id.
	ListDue(ctx context.Context, q DueQuery) ([]*domain.Card, error)

	// CountDue counts the cards matching q, ignoring q.Limit.
	CountDue(ctx context.Context, q DueQuery) (int, error)

	// CountDueByDeck returns one entry per deck with at least one due card.
	// The order of entries is unspecified.
	CountDueByDeck(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.DeckDue, error)

	// NextReviewAfter returns the earliest next_review strictly after now
	// across all of the user's cards, or nil if there is none.
	NextReviewAfter(ctx context.Context, userID uuid.UUID, now time.Time) (*time.Time, error)

	// WithTx returns a CardStore that runs every query on tx.
	WithTx(tx *sql.Tx) CardStore
}
