package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	deckID := uuid.New()

	t.Run("creates a new card due immediately", func(t *testing.T) {
		t.Parallel()

		card, err := NewCard(deckID, "  capital of France?  ", "Paris", now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, deckID, card.DeckID)
		assert.Equal(t, "capital of France?", card.Front)
		assert.Equal(t, CardStateNew, card.State)
		assert.Zero(t, card.Stability)
		assert.Zero(t, card.Difficulty)
		assert.Zero(t, card.Reps)
		assert.Nil(t, card.LastReview)
		assert.Equal(t, now, card.NextReview)
		assert.True(t, card.IsDue(now))
	})

	t.Run("rejects missing deck", func(t *testing.T) {
		t.Parallel()

		_, err := NewCard(uuid.Nil, "q", "a", now)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCardDeckIDEmpty)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		t.Parallel()

		_, err := NewCard(deckID, "q", "   ", now)
		assert.ErrorIs(t, err, ErrCardContentEmpty)
	})
}

func TestCardValidateSchedule(t *testing.T) {
	t.Parallel()

	valid := func() *Card {
		return &Card{
			ID:         uuid.New(),
			DeckID:     uuid.New(),
			Front:      "q",
			Back:       "a",
			State:      CardStateReview,
			Stability:  3.2,
			Difficulty: 5.1,
			NextReview: time.Now(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Card)
		wantErr error
	}{
		{"valid card", func(c *Card) {}, nil},
		{"negative stability", func(c *Card) { c.Stability = -0.1 }, ErrNegativeValue},
		{"negative difficulty", func(c *Card) { c.Difficulty = -1 }, ErrNegativeValue},
		{"negative elapsed days", func(c *Card) { c.ElapsedDays = -1 }, ErrNegativeValue},
		{"negative scheduled days", func(c *Card) { c.ScheduledDays = -3 }, ErrNegativeValue},
		{"negative reps", func(c *Card) { c.Reps = -1 }, ErrNegativeValue},
		{"negative lapses", func(c *Card) { c.Lapses = -1 }, ErrNegativeValue},
		{"negative learning step", func(c *Card) { c.LearningStep = -1 }, ErrNegativeValue},
		{"unknown state", func(c *Card) { c.State = "graduated" }, ErrInvalidCardState},
		{"zero next review", func(c *Card) { c.NextReview = time.Time{} }, ErrNextReviewZero},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			card := valid()
			tc.mutate(card)
			err := card.ValidateSchedule()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCardIsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	past := &Card{NextReview: now.Add(-time.Second)}
	exact := &Card{NextReview: now}
	future := &Card{NextReview: now.Add(time.Second)}

	assert.True(t, past.IsDue(now))
	assert.True(t, exact.IsDue(now))
	assert.False(t, future.IsDue(now))
}

func TestCardClone(t *testing.T) {
	t.Parallel()

	last := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	card := &Card{ID: uuid.New(), LastReview: &last, Reps: 3}

	clone := card.Clone()
	clone.Reps = 9
	*clone.LastReview = last.Add(time.Hour)

	assert.Equal(t, 3, card.Reps)
	assert.Equal(t, last, *card.LastReview)
}

func TestParseReviewGrade(t *testing.T) {
	t.Parallel()

	for _, rating := range []int{1, 2, 3, 4} {
		g, err := ParseReviewGrade(rating)
		require.NoError(t, err)
		assert.Equal(t, ReviewGrade(rating), g)
	}

	for _, rating := range []int{0, 5, -1} {
		_, err := ParseReviewGrade(rating)
		assert.ErrorIs(t, err, ErrInvalidReviewGrade)
		assert.ErrorIs(t, err, ErrValidation)
	}

	assert.Equal(t, "again", GradeAgain.String())
	assert.Equal(t, "easy", GradeEasy.String())
	assert.Equal(t, "grade(7)", ReviewGrade(7).String())
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("limit", "must be between 1 and 200", nil)
	assert.Equal(t, "limit must be between 1 and 200", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "limit", ve.Field)
}
