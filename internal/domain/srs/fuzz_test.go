package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFuzzInterval(t *testing.T) {
	t.Parallel()

	t.Run("short intervals are untouched", func(t *testing.T) {
		t.Parallel()
		for _, days := range []int{1, 2} {
			assert.Equal(t, days, fuzzInterval(days, 0, 36500, 42))
		}
	})

	t.Run("result stays inside the window", func(t *testing.T) {
		t.Parallel()
		for seed := int64(0); seed < 200; seed++ {
			got := fuzzInterval(100, 50, 36500, seed)
			assert.GreaterOrEqual(t, got, 93)
			assert.LessOrEqual(t, got, 107)
		}
	})

	t.Run("respects maximum", func(t *testing.T) {
		t.Parallel()
		for seed := int64(0); seed < 50; seed++ {
			assert.LessOrEqual(t, fuzzInterval(100, 50, 100, seed), 100)
		}
	})

	t.Run("same seed same result", func(t *testing.T) {
		t.Parallel()
		seed := fuzzSeed(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 4, 5.5, 20)
		assert.Equal(t, fuzzInterval(40, 20, 36500, seed), fuzzInterval(40, 20, 36500, seed))
	})
}

func TestFuzzSeedVariesWithInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, fuzzSeed(now, 3, 5, 10), fuzzSeed(now, 3, 5, 10))
	assert.NotEqual(t, fuzzSeed(now, 3, 5, 10), fuzzSeed(now, 4, 5, 10))
	assert.NotEqual(t, fuzzSeed(now, 3, 5, 10), fuzzSeed(now.Add(time.Second), 3, 5, 10))
}
