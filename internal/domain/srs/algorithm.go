package srs

import (
	"math"
)

// minStability is the floor for every stability value.
const minStability = 0.1

// retrievability is the probability of recall after elapsedDays.
//
//	R(t, S) = (1 + t/(9S))^-1
func retrievability(elapsedDays int, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+float64(elapsedDays)/(9*stability), -1)
}

// nextInterval converts stability into whole days for the desired retention,
// clamped to [1, maxDays].
//
//	I(S, r) = round(9S(1/r - 1))
func nextInterval(stability, desiredRetention float64, maxDays int) int {
	interval := 9 * stability * (1/desiredRetention - 1)
	return clampInterval(int(math.Round(interval)), maxDays)
}

// initialStability is w[G-1].
func initialStability(w [19]float64, grade int) float64 {
	return math.Max(minStability, w[grade-1])
}

// initialDifficulty is D0(G) = w4 - e^(w5(G-1)) + 1, clamped to [1, 10].
func initialDifficulty(w [19]float64, grade int) float64 {
	return clampDifficulty(w[4] - math.Exp(w[5]*float64(grade-1)) + 1)
}

// nextDifficulty applies the grade delta and mean-reverts toward D0(easy).
//
//	D' = w7·D0(4) + (1 - w7)(D - w6(G - 3))
func nextDifficulty(w [19]float64, d float64, grade int) float64 {
	target := initialDifficulty(w, 4)
	return clampDifficulty(w[7]*target + (1-w[7])*(d-w[6]*(float64(grade)-3)))
}

// stabilityAfterRecall is the post-review stability for hard, good and easy.
//
//	S' = S(e^w8 · (11 - D) · S^-w9 · (e^(w10(1-R)) - 1) · penalty · bonus + 1)
func stabilityAfterRecall(w [19]float64, s, d, r float64, grade int) float64 {
	hardPenalty := 1.0
	if grade == 2 {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if grade == 4 {
		easyBonus = w[16]
	}

	growth := math.Exp(w[8]) *
		(11 - d) *
		math.Pow(s, -w[9]) *
		(math.Exp(w[10]*(1-r)) - 1) *
		hardPenalty *
		easyBonus

	return math.Max(minStability, s*(growth+1))
}

// stabilityAfterForgetting is the post-lapse stability, never above the
// pre-lapse stability scaled down by the short-term factor.
//
//	S' = min(w11 · D^-w12 · ((S+1)^w13 - 1) · e^(w14(1-R)), S / e^(w17·w18))
func stabilityAfterForgetting(w [19]float64, s, d, r float64) float64 {
	forgot := w[11] *
		math.Pow(d, -w[12]) *
		(math.Pow(s+1, w[13]) - 1) *
		math.Exp(w[14]*(1-r))
	capped := s / math.Exp(w[17]*w[18])
	return math.Max(minStability, math.Min(forgot, capped))
}

// shortTermStability updates stability for reviews inside learning steps.
//
//	S' = S · e^(w17(G - 3 + w18))
func shortTermStability(w [19]float64, s float64, grade int) float64 {
	return math.Max(minStability, s*math.Exp(w[17]*(float64(grade)-3+w[18])))
}

func clampDifficulty(d float64) float64 {
	return math.Max(1, math.Min(10, d))
}

func clampInterval(days, maxDays int) int {
	if days < 1 {
		return 1
	}
	if days > maxDays {
		return maxDays
	}
	return days
}
