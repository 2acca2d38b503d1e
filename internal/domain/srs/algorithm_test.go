package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievability(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, retrievability(0, 5), 1e-9)
	assert.InDelta(t, 0.9, retrievability(1, 1), 1e-9)
	assert.Equal(t, 0.0, retrievability(3, 0))
	assert.Greater(t, retrievability(1, 10), retrievability(10, 10))
}

func TestNextInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stability float64
		retention float64
		maxDays   int
		want      int
	}{
		{"stability equals interval at 90 percent", 15.4722, 0.9, 36500, 15},
		{"floor of one day", 0.1, 0.9, 36500, 1},
		{"capped by maximum", 5000, 0.9, 365, 365},
		{"lower retention stretches interval", 10, 0.75, 36500, 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, nextInterval(tc.stability, tc.retention, tc.maxDays))
		})
	}
}

func TestInitialDifficultyDecreasesWithGrade(t *testing.T) {
	t.Parallel()

	w := DefaultWeights
	for g := 1; g < 4; g++ {
		assert.Greater(t, initialDifficulty(w, g), initialDifficulty(w, g+1))
	}
	for g := 1; g <= 4; g++ {
		d := initialDifficulty(w, g)
		assert.GreaterOrEqual(t, d, 1.0)
		assert.LessOrEqual(t, d, 10.0)
	}
}

func TestNextDifficultyStaysInRange(t *testing.T) {
	t.Parallel()

	w := DefaultWeights
	assert.Equal(t, 10.0, nextDifficulty(w, 10, 1))
	assert.Equal(t, 1.0, nextDifficulty(w, 1, 4))
	assert.Greater(t, nextDifficulty(w, 5, 1), nextDifficulty(w, 5, 3))
}

func TestStabilityAfterRecallGrows(t *testing.T) {
	t.Parallel()

	w := DefaultWeights
	s, d := 10.0, 5.0
	r := retrievability(10, s)

	hard := stabilityAfterRecall(w, s, d, r, 2)
	good := stabilityAfterRecall(w, s, d, r, 3)
	easy := stabilityAfterRecall(w, s, d, r, 4)

	assert.Greater(t, hard, s)
	assert.Less(t, hard, good)
	assert.Less(t, good, easy)
}

func TestStabilityAfterForgettingIsCapped(t *testing.T) {
	t.Parallel()

	w := DefaultWeights
	for _, s := range []float64{0.1, 1, 10, 100, 1000} {
		got := stabilityAfterForgetting(w, s, 5, retrievability(30, s))
		assert.LessOrEqual(t, got, s, "stability %v", s)
		assert.GreaterOrEqual(t, got, minStability)
	}
}

func TestShortTermStability(t *testing.T) {
	t.Parallel()

	w := DefaultWeights
	s := 3.0
	assert.Less(t, shortTermStability(w, s, 1), shortTermStability(w, s, 3))
	assert.Equal(t, minStability, shortTermStability(w, 0, 3))
}
