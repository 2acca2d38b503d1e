package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardContentEmpty is returned when either side of a card is blank.
	ErrCardContentEmpty = errors.New("card front and back cannot be empty")

	// ErrNextReviewZero is returned when a card carries no due date.
	ErrNextReviewZero = errors.New("card next review cannot be zero")

	// ErrReviewInFuture is returned when a card's last review lies after the
	// time it is being scheduled at.
	ErrReviewInFuture = errors.New("card last review is after now")
)

// CardState is the position of a card in the learning state machine.
type CardState string

// Valid card states.
const (
	CardStateNew        CardState = "new"
	CardStateLearning   CardState = "learning"
	CardStateReview     CardState = "review"
	CardStateRelearning CardState = "relearning"
)

// Valid reports whether s is one of the known states.
func (s CardState) Valid() bool {
	switch s {
	case CardStateNew, CardStateLearning, CardStateReview, CardStateRelearning:
		return true
	}
	return false
}

// Card is a unit of study content together with its memory-model state.
// NextReview is the only authoritative due date.
type Card struct {
	ID     uuid.UUID `json:"id"`
	DeckID uuid.UUID `json:"deck_id"`
	Front  string    `json:"front"`
	Back   string    `json:"back"`

	Stability     float64    `json:"stability"`
	Difficulty    float64    `json:"difficulty"`
	ElapsedDays   int        `json:"elapsed_days"`
	ScheduledDays int        `json:"scheduled_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	LearningStep  int        `json:"learning_step"`
	State         CardState  `json:"state"`
	LastReview    *time.Time `json:"last_review"`
	NextReview    time.Time  `json:"next_review"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card in the new state that is due immediately at now.
func NewCard(deckID uuid.UUID, front, back string, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		ID:         uuid.New(),
		DeckID:     deckID,
		Front:      strings.TrimSpace(front),
		Back:       strings.TrimSpace(back),
		State:      CardStateNew,
		NextReview: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks identity and content fields, then the scheduling state.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrCardIDEmpty)
	}

	if c.DeckID == uuid.Nil {
		return NewValidationError("deck_id", "cannot be empty", ErrCardDeckIDEmpty)
	}

	if c.Front == "" || c.Back == "" {
		return NewValidationError("content", "front and back are required", ErrCardContentEmpty)
	}

	return c.ValidateSchedule()
}

// ValidateSchedule checks that the memory-model fields are well formed.
// Malformed values are rejected rather than clamped.
func (c *Card) ValidateSchedule() error {
	if !c.State.Valid() {
		return NewValidationError("state", "is not a known card state", ErrInvalidCardState)
	}

	checks := []struct {
		field    string
		negative bool
	}{
		{"stability", c.Stability < 0},
		{"difficulty", c.Difficulty < 0},
		{"elapsed_days", c.ElapsedDays < 0},
		{"scheduled_days", c.ScheduledDays < 0},
		{"reps", c.Reps < 0},
		{"lapses", c.Lapses < 0},
		{"learning_step", c.LearningStep < 0},
	}
	for _, check := range checks {
		if check.negative {
			return NewValidationError(check.field, "cannot be negative", ErrNegativeValue)
		}
	}

	if c.NextReview.IsZero() {
		return NewValidationError("next_review", "cannot be zero", ErrNextReviewZero)
	}

	return nil
}

// IsDue reports whether the card should be reviewed at now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReview.After(now)
}

// Clone returns a deep copy so transitions never alias the caller's card.
func (c *Card) Clone() *Card {
	clone := *c
	if c.LastReview != nil {
		lr := *c.LastReview
		clone.LastReview = &lr
	}
	return &clone
}
