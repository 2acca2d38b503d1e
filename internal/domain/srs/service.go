package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("card cannot be nil")

	// ErrInvalidCardState is returned, wrapped in a domain.ValidationError,
	// for cards whose scheduling fields are malformed.
	ErrInvalidCardState = domain.ErrInvalidCardState
)

// Service defines the interface for memory-model operations.
type Service interface {
	// Next computes the card's state after a review with grade at now.
	Next(card *domain.Card, grade domain.ReviewGrade, now time.Time) (*domain.Card, error)

	// Preview computes the outcome of every grade from the card's current state.
	Preview(card *domain.Card, now time.Time) (*Outcomes, error)
}

// Outcomes holds the next state for each grade, computed from the same
// starting card.
type Outcomes struct {
	cards [4]*domain.Card
}

// For returns the outcome for grade. It panics on an invalid grade, which
// Preview callers are expected to have validated.
func (o *Outcomes) For(grade domain.ReviewGrade) *domain.Card {
	return o.cards[grade-1]
}

// IntervalPreview is the human-readable delay until the next review for each grade.
type IntervalPreview struct {
	Again string `json:"again"`
	Hard  string `json:"hard"`
	Good  string `json:"good"`
	Easy  string `json:"easy"`
}

// Intervals formats each outcome relative to now.
func (o *Outcomes) Intervals(now time.Time) IntervalPreview {
	format := func(g domain.ReviewGrade) string {
		return FormatInterval(o.For(g).NextReview.Sub(now))
	}
	return IntervalPreview{
		Again: format(domain.GradeAgain),
		Hard:  format(domain.GradeHard),
		Good:  format(domain.GradeGood),
		Easy:  format(domain.GradeEasy),
	}
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new memory-model service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new service with custom, validated parameters.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// Next implements Service.
func (s *defaultService) Next(
	card *domain.Card,
	grade domain.ReviewGrade,
	now time.Time,
) (*domain.Card, error) {
	if !grade.Valid() {
		return nil, domain.NewValidationError("grade", "must be between 1 and 4", domain.ErrInvalidReviewGrade)
	}

	outcomes, err := s.Preview(card, now)
	if err != nil {
		return nil, err
	}

	return outcomes.For(grade), nil
}

// Preview implements Service.
func (s *defaultService) Preview(card *domain.Card, now time.Time) (*Outcomes, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if err := card.ValidateSchedule(); err != nil {
		return nil, err
	}

	now = now.UTC()
	if card.LastReview != nil && card.LastReview.After(now) {
		return nil, domain.NewValidationError("last_review", "is after now", domain.ErrReviewInFuture)
	}

	return &Outcomes{cards: calculateOutcomes(card, now, s.params)}, nil
}
