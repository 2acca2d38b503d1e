package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/service/dashboard"
	"github.com/phrazzld/scry-study/internal/service/quota"
)

// CardResponse is the public shape of a flashcard and its schedule.
type CardResponse struct {
	ID            uuid.UUID        `json:"id"`
	DeckID        uuid.UUID        `json:"deck_id"`
	Front         string           `json:"front"`
	Back          string           `json:"back"`
	State         domain.CardState `json:"state"`
	Stability     float64          `json:"stability"`
	Difficulty    float64          `json:"difficulty"`
	ElapsedDays   int              `json:"elapsed_days"`
	ScheduledDays int              `json:"scheduled_days"`
	Reps          int              `json:"reps"`
	Lapses        int              `json:"lapses"`
	LastReview    *time.Time       `json:"last_review"`
	NextReview    time.Time        `json:"next_review"`
}

func cardToResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:            c.ID,
		DeckID:        c.DeckID,
		Front:         c.Front,
		Back:          c.Back,
		State:         c.State,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
		LastReview:    c.LastReview,
		NextReview:    c.NextReview,
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return out
}

// StudyCardsResponse is one page of due cards.
type StudyCardsResponse struct {
	Data          []CardResponse `json:"data"`
	TotalDue      int            `json:"total_due"`
	ReturnedCount int            `json:"returned_count"`
}

// DeckDueResponse is one deck with due cards.
type DeckDueResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	DueCount int       `json:"due_count"`
}

// SummaryResponse lists due counts per deck.
type SummaryResponse struct {
	TotalDue       int               `json:"total_due"`
	NextReviewDate *time.Time        `json:"next_review_date"`
	Decks          []DeckDueResponse `json:"decks"`
}

func summaryToResponse(s *domain.DueSummary) SummaryResponse {
	decks := make([]DeckDueResponse, 0, len(s.PerDeck))
	for _, d := range s.PerDeck {
		decks = append(decks, DeckDueResponse{ID: d.DeckID, Name: d.DeckName, DueCount: d.DueCount})
	}
	return SummaryResponse{TotalDue: s.TotalDue, NextReviewDate: s.NextReviewDate, Decks: decks}
}

// ReviewRequest grades one flashcard. Rating is 1 (again) to 4 (easy).
type ReviewRequest struct {
	FlashcardID string `json:"flashcard_id" validate:"required,uuid"`
	Rating      int    `json:"rating"       validate:"required,min=1,max=4"`
}

// ReviewResponse is the rescheduled card plus the delay each grade would
// have produced.
type ReviewResponse struct {
	Flashcard     CardResponse        `json:"flashcard"`
	NextIntervals srs.IntervalPreview `json:"next_intervals"`
}

// GenerateRequest asks for up to Count cards drafted from Text into DeckID.
type GenerateRequest struct {
	DeckID string `json:"deck_id" validate:"required,uuid"`
	Text   string `json:"text"    validate:"required"`
	Count  int    `json:"count"   validate:"required,min=1"`
}

// QuotaSummary is the allowance left after a generation.
type QuotaSummary struct {
	Remaining int       `json:"remaining"`
	ResetDate time.Time `json:"reset_date"`
}

// GenerateResponse lists the created cards.
type GenerateResponse struct {
	Data           []CardResponse `json:"data"`
	GeneratedCount int            `json:"generated_count"`
	Quota          QuotaSummary   `json:"quota"`
}

// QuotaResponse is the user's generation usage this month.
type QuotaResponse struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetDate time.Time `json:"reset_date"`
}

func quotaToResponse(s *quota.Status) QuotaResponse {
	return QuotaResponse{Used: s.Used, Limit: s.Limit, Remaining: s.Remaining, ResetDate: s.ResetDate}
}

// DashboardResponse is the study overview.
type DashboardResponse struct {
	TotalDue       int               `json:"total_due"`
	NextReviewDate *time.Time        `json:"next_review_date"`
	NextReviewIn   string            `json:"next_review_in"`
	Decks          []DeckDueResponse `json:"decks"`
	Quota          *QuotaResponse    `json:"quota,omitempty"`
}

func overviewToResponse(o *dashboard.Overview) DashboardResponse {
	decks := make([]DeckDueResponse, 0, len(o.Decks))
	for _, d := range o.Decks {
		decks = append(decks, DeckDueResponse{ID: d.ID, Name: d.Name, DueCount: d.DueCount})
	}
	resp := DashboardResponse{
		TotalDue:       o.TotalDue,
		NextReviewDate: o.NextReviewDate,
		NextReviewIn:   o.NextReviewIn,
		Decks:          decks,
	}
	if o.Quota != nil {
		q := quotaToResponse(o.Quota)
		resp.Quota = &q
	}
	return resp
}
