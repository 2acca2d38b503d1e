package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

const day = 24 * time.Hour

// calculateOutcomes is the pure transition for all four grades, indexed by
// grade-1. The input card is never modified.
func calculateOutcomes(card *domain.Card, now time.Time, params *Params) [4]*domain.Card {
	var out [4]*domain.Card

	switch card.State {
	case domain.CardStateNew:
		for i, g := range domain.AllGrades {
			out[i] = reviewNew(card, int(g), now, params)
		}
	case domain.CardStateLearning:
		for i, g := range domain.AllGrades {
			out[i] = reviewLearning(card, int(g), now, params, params.LearningSteps, domain.CardStateLearning)
		}
	case domain.CardStateRelearning:
		for i, g := range domain.AllGrades {
			out[i] = reviewLearning(card, int(g), now, params, params.RelearningSteps, domain.CardStateRelearning)
		}
	case domain.CardStateReview:
		out = reviewReview(card, now, params)
	}

	enforceOrdering(&out)
	return out
}

// reviewNew handles the first review of a card.
func reviewNew(card *domain.Card, grade int, now time.Time, p *Params) *domain.Card {
	next := begin(card, now)
	next.Stability = initialStability(p.Weights, grade)
	next.Difficulty = initialDifficulty(p.Weights, grade)

	steps := p.LearningSteps
	switch grade {
	case 1:
		inStep(next, domain.CardStateLearning, 0, now.Add(steps[0]))
	case 2:
		inStep(next, domain.CardStateLearning, 0, now.Add(hardDelay(steps, 0)))
	case 3:
		if len(steps) > 1 {
			inStep(next, domain.CardStateLearning, 1, now.Add(steps[1]))
		} else {
			graduate(next, nextInterval(next.Stability, p.DesiredRetention, p.MaximumIntervalDays), now)
		}
	case 4:
		good := nextInterval(initialStability(p.Weights, 3), p.DesiredRetention, p.MaximumIntervalDays)
		graduate(next, atLeastAfter(
			nextInterval(next.Stability, p.DesiredRetention, p.MaximumIntervalDays), good, p.MaximumIntervalDays), now)
	}

	return next
}

// reviewLearning handles cards climbing learning or relearning steps.
func reviewLearning(
	card *domain.Card,
	grade int,
	now time.Time,
	p *Params,
	steps []time.Duration,
	state domain.CardState,
) *domain.Card {
	next := begin(card, now)

	step := card.LearningStep
	if step >= len(steps) {
		step = len(steps) - 1
	}

	next.Stability = shortTermStability(p.Weights, card.Stability, grade)
	next.Difficulty = nextDifficulty(p.Weights, card.Difficulty, grade)

	switch grade {
	case 1:
		inStep(next, state, 0, now.Add(steps[0]))
	case 2:
		inStep(next, state, step, now.Add(hardDelay(steps, step)))
	case 3:
		if step+1 < len(steps) {
			inStep(next, state, step+1, now.Add(steps[step+1]))
		} else {
			graduate(next, nextInterval(next.Stability, p.DesiredRetention, p.MaximumIntervalDays), now)
		}
	case 4:
		goodStability := shortTermStability(p.Weights, card.Stability, 3)
		good := nextInterval(goodStability, p.DesiredRetention, p.MaximumIntervalDays)
		graduate(next, atLeastAfter(
			nextInterval(next.Stability, p.DesiredRetention, p.MaximumIntervalDays), good, p.MaximumIntervalDays), now)
	}

	return next
}

// reviewReview handles graduated cards. All four outcomes share the same
// retrievability and pre-review difficulty.
func reviewReview(card *domain.Card, now time.Time, p *Params) [4]*domain.Card {
	var out [4]*domain.Card

	elapsed := elapsedDays(card, now)
	if card.LastReview == nil {
		elapsed = card.ScheduledDays
	}
	if elapsed < 1 {
		elapsed = 1
	}

	s := math.Max(card.Stability, minStability)
	d := clampDifficulty(card.Difficulty)
	r := retrievability(elapsed, s)

	again := begin(card, now)
	again.Lapses++
	again.Difficulty = nextDifficulty(p.Weights, d, 1)
	again.Stability = stabilityAfterForgetting(p.Weights, s, d, r)
	inStep(again, domain.CardStateRelearning, 0, now.Add(p.RelearningSteps[0]))
	out[0] = again

	var stability [3]float64
	var days [3]int
	for i, grade := range []int{2, 3, 4} {
		stability[i] = stabilityAfterRecall(p.Weights, s, d, r, grade)
		days[i] = nextInterval(stability[i], p.DesiredRetention, p.MaximumIntervalDays)
	}

	hard, good, easy := orderIntervals(days[0], days[1], days[2], p.MaximumIntervalDays)

	if p.EnableFuzz {
		seed := fuzzSeed(now, card.Reps+1, d, s)
		hard = fuzzInterval(hard, elapsed, p.MaximumIntervalDays, seed)
		good = fuzzInterval(good, elapsed, p.MaximumIntervalDays, seed+1)
		easy = fuzzInterval(easy, elapsed, p.MaximumIntervalDays, seed+2)
		hard, good, easy = orderIntervals(hard, good, easy, p.MaximumIntervalDays)
	}

	for i, interval := range []int{hard, good, easy} {
		next := begin(card, now)
		next.Difficulty = nextDifficulty(p.Weights, d, i+2)
		next.Stability = stability[i]
		graduate(next, interval, now)
		out[i+1] = next
	}

	return out
}

// orderIntervals enforces hard <= good < easy before clamping to maxDays.
func orderIntervals(hard, good, easy, maxDays int) (int, int, int) {
	if hard > good {
		hard = good
	}
	if good <= hard {
		good = hard + 1
	}
	if easy <= good {
		easy = good + 1
	}
	return clampInterval(hard, maxDays), clampInterval(good, maxDays), clampInterval(easy, maxDays)
}

// enforceOrdering guarantees that a higher grade never comes due earlier
// than a lower one.
func enforceOrdering(out *[4]*domain.Card) {
	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if cur.NextReview.Before(prev.NextReview) {
			cur.NextReview = prev.NextReview
		}
		if cur.ScheduledDays < prev.ScheduledDays {
			cur.ScheduledDays = prev.ScheduledDays
		}
	}
}

// begin copies the card and records the review itself.
func begin(card *domain.Card, now time.Time) *domain.Card {
	next := card.Clone()
	reviewedAt := now
	next.ElapsedDays = elapsedDays(card, now)
	next.Reps++
	next.LastReview = &reviewedAt
	next.UpdatedAt = now
	return next
}

func inStep(card *domain.Card, state domain.CardState, step int, due time.Time) {
	card.State = state
	card.LearningStep = step
	card.ScheduledDays = 0
	card.NextReview = due
}

func graduate(card *domain.Card, days int, now time.Time) {
	card.State = domain.CardStateReview
	card.LearningStep = 0
	card.ScheduledDays = days
	card.NextReview = now.Add(time.Duration(days) * day)
}

// hardDelay repeats the current step, except on the first step where it
// sits between the first two steps (or half again the only step, at most a
// day more).
func hardDelay(steps []time.Duration, step int) time.Duration {
	if step > 0 {
		return steps[step]
	}
	if len(steps) > 1 {
		return (steps[0] + steps[1]) / 2
	}
	delay := steps[0] * 3 / 2
	if delay > steps[0]+day {
		delay = steps[0] + day
	}
	return delay
}

func atLeastAfter(days, floor, maxDays int) int {
	if days <= floor {
		days = floor + 1
	}
	return clampInterval(days, maxDays)
}

// elapsedDays is the number of whole days since the previous review.
func elapsedDays(card *domain.Card, now time.Time) int {
	if card.LastReview == nil {
		return 0
	}
	elapsed := int(now.Sub(*card.LastReview) / day)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
