package sqlstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/migrations"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     *sql.DB
	decks  *sqlstore.DeckStore
	cards  *sqlstore.CardStore
	quotas *sqlstore.QuotaStore
	events *sqlstore.EventStore
}

// newFixture opens a migrated SQLite database in a temp dir.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, migrations.SQLite, nil))

	d := sqlite.Dialect()
	return &fixture{
		db:     db,
		decks:  sqlstore.NewDeckStore(db, d, nil),
		cards:  sqlstore.NewCardStore(db, d, nil),
		quotas: sqlstore.NewQuotaStore(db, d, nil),
		events: sqlstore.NewEventStore(db, d, nil),
	}
}

func (f *fixture) deck(t *testing.T, userID uuid.UUID, name string) *domain.Deck {
	t.Helper()
	deck := &domain.Deck{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: testNow.Add(-48 * time.Hour)}
	require.NoError(t, f.decks.Create(context.Background(), deck))
	return deck
}

func (f *fixture) card(t *testing.T, deckID uuid.UUID, nextReview time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(deckID, "front", "back", testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	card.NextReview = nextReview
	require.NoError(t, f.cards.CreateMultiple(context.Background(), []*domain.Card{card}))
	return card
}
