// Package card_review records a review grade against a card and reschedules it.
package card_review

import (
	"errors"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/store"
)

// Common error types for CardReviewService
var (
	// ErrCardNotFound indicates the card does not exist or is owned by
	// another user. The two cases are not distinguished.
	ErrCardNotFound = store.ErrCardNotFound

	// ErrInvalidSchedule indicates a stored card whose scheduling fields
	// cannot be reviewed.
	ErrInvalidSchedule = errors.New("stored card has an invalid schedule")
)

// ReviewResult is the persisted card plus the delays every grade would have
// produced from the card's state before this review.
type ReviewResult struct {
	Card      *domain.Card
	Intervals srs.IntervalPreview
}
