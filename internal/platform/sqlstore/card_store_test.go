package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
)

func TestCardStoreOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner, other := uuid.New(), uuid.New()
	deck := f.deck(t, owner, "Spanish")
	card := f.card(t, deck.ID, testNow)

	got, err := f.cards.GetForUser(ctx, owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, domain.CardStateNew, got.State)
	assert.Nil(t, got.LastReview)
	assert.Equal(t, testNow, got.NextReview)

	locked, err := f.cards.GetForUserForUpdate(ctx, owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, got, locked)

	_, err = f.cards.GetForUser(ctx, other, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	_, err = f.cards.GetForUser(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestCardStoreCreateMultiple(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	deck := f.deck(t, uuid.New(), "Spanish")

	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, f.cards.CreateMultiple(ctx, nil))
	})

	t.Run("invalid card rejects the batch", func(t *testing.T) {
		good, err := domain.NewCard(deck.ID, "q", "a", testNow)
		require.NoError(t, err)
		bad := good.Clone()
		bad.ID = uuid.New()
		bad.Front = ""

		err = f.cards.CreateMultiple(ctx, []*domain.Card{good, bad})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		count, err := f.cards.CountDue(ctx, store.DueQuery{UserID: deck.UserID, Now: testNow})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("unknown deck", func(t *testing.T) {
		card, err := domain.NewCard(uuid.New(), "q", "a", testNow)
		require.NoError(t, err)
		err = f.cards.CreateMultiple(ctx, []*domain.Card{card})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("rolled back with the transaction", func(t *testing.T) {
		card, err := domain.NewCard(deck.ID, "q", "a", testNow)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = store.RunInTransaction(ctx, f.db, func(ctx context.Context, tx *sql.Tx) error {
			if err := f.cards.WithTx(tx).CreateMultiple(ctx, []*domain.Card{card}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = f.cards.GetForUser(ctx, deck.UserID, card.ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})
}

func TestCardStoreUpdateSchedule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner := uuid.New()
	deck := f.deck(t, owner, "Spanish")
	card := f.card(t, deck.ID, testNow)

	last := testNow
	updated := card.Clone()
	updated.Stability = 3.1262
	updated.Difficulty = 5.3146
	updated.ElapsedDays = 2
	updated.ScheduledDays = 4
	updated.Reps = 3
	updated.Lapses = 1
	updated.LearningStep = 1
	updated.State = domain.CardStateReview
	updated.LastReview = &last
	updated.NextReview = testNow.Add(4 * 24 * time.Hour)
	updated.UpdatedAt = testNow

	require.NoError(t, f.cards.UpdateSchedule(ctx, updated))

	got, err := f.cards.GetForUser(ctx, owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	missing := updated.Clone()
	missing.ID = uuid.New()
	assert.ErrorIs(t, f.cards.UpdateSchedule(ctx, missing), store.ErrCardNotFound)

	invalid := updated.Clone()
	invalid.Reps = -1
	assert.ErrorIs(t, f.cards.UpdateSchedule(ctx, invalid), store.ErrInvalidEntity)
}

func TestCardStoreDueQueries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	owner, other := uuid.New(), uuid.New()
	spanish := f.deck(t, owner, "Spanish")
	art := f.deck(t, owner, "Art")
	empty := f.deck(t, owner, "Empty")
	foreign := f.deck(t, other, "Other")

	oldest := f.card(t, spanish.ID, testNow.Add(-72*time.Hour))
	justDue := f.card(t, spanish.ID, testNow.Add(-time.Second))
	exactlyNow := f.card(t, art.ID, testNow)
	f.card(t, spanish.ID, testNow.Add(time.Second))
	f.card(t, empty.ID, testNow.Add(2*time.Hour))
	f.card(t, foreign.ID, testNow.Add(-time.Hour))

	t.Run("due boundary and order", func(t *testing.T) {
		cards, err := f.cards.ListDue(ctx, store.DueQuery{UserID: owner, Now: testNow, Limit: 50})
		require.NoError(t, err)
		require.Len(t, cards, 3)
		assert.Equal(t, oldest.ID, cards[0].ID)
		assert.Equal(t, justDue.ID, cards[1].ID)
		assert.Equal(t, exactlyNow.ID, cards[2].ID)
	})

	t.Run("limit does not change count", func(t *testing.T) {
		q := store.DueQuery{UserID: owner, Now: testNow, Limit: 2}
		cards, err := f.cards.ListDue(ctx, q)
		require.NoError(t, err)
		assert.Len(t, cards, 2)

		count, err := f.cards.CountDue(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("deck filter", func(t *testing.T) {
		q := store.DueQuery{UserID: owner, DeckID: &art.ID, Now: testNow, Limit: 50}
		cards, err := f.cards.ListDue(ctx, q)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, exactlyNow.ID, cards[0].ID)
	})

	t.Run("ties ordered by id", func(t *testing.T) {
		tieDeck := f.deck(t, uuid.New(), "Ties")
		at := testNow.Add(-time.Minute)
		a := f.card(t, tieDeck.ID, at)
		b := f.card(t, tieDeck.ID, at)

		cards, err := f.cards.ListDue(ctx, store.DueQuery{UserID: tieDeck.UserID, Now: testNow, Limit: 10})
		require.NoError(t, err)
		require.Len(t, cards, 2)
		first, second := a.ID, b.ID
		if second.String() < first.String() {
			first, second = second, first
		}
		assert.Equal(t, first, cards[0].ID)
		assert.Equal(t, second, cards[1].ID)
	})

	t.Run("per deck counts omit decks with nothing due", func(t *testing.T) {
		counts, err := f.cards.CountDueByDeck(ctx, owner, testNow)
		require.NoError(t, err)

		byDeck := map[uuid.UUID]domain.DeckDue{}
		for _, c := range counts {
			byDeck[c.DeckID] = c
		}
		assert.Len(t, byDeck, 2)
		assert.Equal(t, 2, byDeck[spanish.ID].DueCount)
		assert.Equal(t, "Spanish", byDeck[spanish.ID].DeckName)
		assert.Equal(t, 1, byDeck[art.ID].DueCount)
		assert.NotContains(t, byDeck, empty.ID)
	})

	t.Run("next review strictly after now", func(t *testing.T) {
		next, err := f.cards.NextReviewAfter(ctx, owner, testNow)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, testNow.Add(time.Second), *next)

		none, err := f.cards.NextReviewAfter(ctx, other, testNow)
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}
