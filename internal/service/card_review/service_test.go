package card_review_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/store"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	cards   *mocks.MockCardStore
	tx      *mocks.TxRecorder
	emitter *mocks.MockEmitter
	svc     card_review.CardReviewService
}

// newHarness serves card to owner from a mocked store.
func newHarness(t *testing.T, owner uuid.UUID, card *domain.Card) *harness {
	t.Helper()
	h := &harness{
		cards: &mocks.MockCardStore{
			GetForUserFn: func(_ context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
				if card == nil || userID != owner || cardID != card.ID {
					return nil, store.ErrCardNotFound
				}
				return card.Clone(), nil
			},
		},
		tx:      &mocks.TxRecorder{},
		emitter: &mocks.MockEmitter{},
	}
	h.svc = card_review.NewCardReviewService(h.cards, h.tx.Runner(), srs.NewDefaultService(), h.emitter, nil,
		card_review.WithClock(func() time.Time { return now }))
	return h
}

func newCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), "hola", "hello", now.Add(-time.Hour))
	require.NoError(t, err)
	return card
}

func TestSubmitReviewNewCardGood(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	card := newCard(t)
	h := newHarness(t, owner, card)

	result, err := h.svc.SubmitReview(context.Background(), owner, card.ID, domain.GradeGood)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateLearning, result.Card.State)
	assert.Equal(t, 1, result.Card.Reps)
	assert.True(t, result.Card.NextReview.After(now))
	require.NotNil(t, result.Card.LastReview)
	assert.Equal(t, now, *result.Card.LastReview)

	assert.Equal(t, srs.IntervalPreview{Again: "1m", Hard: "6m", Good: "10m", Easy: "15d"}, result.Intervals)

	require.Len(t, h.cards.Updated, 1)
	assert.Equal(t, result.Card, h.cards.Updated[0])
	assert.Equal(t, 1, h.tx.Calls())

	emitted := h.emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.TypeReviewSubmitted, emitted[0].Type)
	var payload events.ReviewSubmitted
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, card.ID, payload.CardID)
	assert.Equal(t, 3, payload.Grade)
	assert.Equal(t, "learning", payload.State)
}

func TestSubmitReviewLapse(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	card := newCard(t)
	last := now.Add(-10 * 24 * time.Hour)
	card.State = domain.CardStateReview
	card.Stability = 10
	card.Difficulty = 5
	card.ScheduledDays = 10
	card.Reps = 5
	card.Lapses = 1
	card.LastReview = &last
	card.NextReview = now

	h := newHarness(t, owner, card)
	result, err := h.svc.SubmitReview(context.Background(), owner, card.ID, domain.GradeAgain)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateRelearning, result.Card.State)
	assert.Equal(t, 2, result.Card.Lapses)
	assert.Equal(t, 6, result.Card.Reps)
	assert.Equal(t, now.Add(10*time.Minute), result.Card.NextReview)
}

func TestSubmitReviewRejectsGradeBeforeStorage(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	card := newCard(t)

	for _, grade := range []domain.ReviewGrade{0, 5, -1} {
		t.Run(fmt.Sprintf("grade %d", grade), func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, owner, card)

			_, err := h.svc.SubmitReview(context.Background(), owner, card.ID, grade)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorIs(t, err, domain.ErrInvalidReviewGrade)
			assert.Zero(t, h.tx.Calls())
			assert.Empty(t, h.emitter.Events())
		})
	}
}

func TestSubmitReviewFailures(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	tests := []struct {
		name    string
		user    func(owner uuid.UUID) uuid.UUID
		setup   func(h *harness)
		wantErr error
	}{
		{
			name:    "other user's card",
			user:    func(uuid.UUID) uuid.UUID { return uuid.New() },
			wantErr: card_review.ErrCardNotFound,
		},
		{
			name: "load fails",
			setup: func(h *harness) {
				h.cards.GetForUserForUpdateFn = func(context.Context, uuid.UUID, uuid.UUID) (*domain.Card, error) {
					return nil, errors.New("connection reset")
				}
			},
			wantErr: store.ErrPersistence,
		},
		{
			name: "update fails",
			setup: func(h *harness) {
				h.cards.UpdateScheduleFn = func(context.Context, *domain.Card) error {
					return store.ErrInvalidEntity
				}
			},
			wantErr: store.ErrPersistence,
		},
		{
			name: "card deleted before update",
			setup: func(h *harness) {
				h.cards.UpdateScheduleFn = func(context.Context, *domain.Card) error {
					return store.ErrCardNotFound
				}
			},
			wantErr: card_review.ErrCardNotFound,
		},
		{
			name: "commit fails",
			setup: func(h *harness) {
				h.tx.CommitErr = fmt.Errorf("%w: failed to commit transaction", store.ErrPersistence)
			},
			wantErr: store.ErrPersistence,
		},
		{
			name: "begin fails",
			setup: func(h *harness) {
				h.tx.BeginErr = fmt.Errorf("%w: failed to begin transaction", store.ErrPersistence)
			},
			wantErr: store.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			card := newCard(t)
			h := newHarness(t, owner, card)
			if tt.setup != nil {
				tt.setup(h)
			}
			user := owner
			if tt.user != nil {
				user = tt.user(owner)
			}

			result, err := h.svc.SubmitReview(context.Background(), user, card.ID, domain.GradeGood)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, h.emitter.Events(), "nothing is emitted unless the review committed")
		})
	}
}

func TestSubmitReviewMissingCard(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	h := newHarness(t, owner, nil)

	_, err := h.svc.SubmitReview(context.Background(), owner, uuid.New(), domain.GradeEasy)
	assert.ErrorIs(t, err, card_review.ErrCardNotFound)
}

func TestSubmitReviewCorruptSchedule(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	card := newCard(t)
	card.Reps = -1
	h := newHarness(t, owner, card)

	_, err := h.svc.SubmitReview(context.Background(), owner, card.ID, domain.GradeGood)
	assert.ErrorIs(t, err, card_review.ErrInvalidSchedule)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, h.cards.Updated)
}

func TestSubmitReviewEmitFailureDoesNotFailReview(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	card := newCard(t)
	h := newHarness(t, owner, card)
	h.emitter.Err = errors.New("queue full")

	result, err := h.svc.SubmitReview(context.Background(), owner, card.ID, domain.GradeHard)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStateLearning, result.Card.State)
}
