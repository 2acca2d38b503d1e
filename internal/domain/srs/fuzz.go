package srs

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// fuzzTier widens the fuzz window by factor for the part of an interval
// that falls between start and end days.
type fuzzTier struct {
	start  float64
	end    float64
	factor float64
}

var fuzzTiers = []fuzzTier{
	{start: 2.5, end: 7, factor: 0.15},
	{start: 7, end: 20, factor: 0.10},
	{start: 20, end: math.MaxFloat64, factor: 0.05},
}

// fuzzInterval spreads an interval of at least 3 days inside a window that
// grows with its length. The result is fully determined by seed.
func fuzzInterval(days, elapsedDays, maxDays int, seed int64) int {
	interval := float64(days)
	if interval < 2.5 {
		return days
	}

	delta := 1.0
	for _, tier := range fuzzTiers {
		delta += tier.factor * math.Max(math.Min(interval, tier.end)-tier.start, 0)
	}

	lo := int(math.Round(interval - delta))
	hi := int(math.Round(interval + delta))

	if lo < 2 {
		lo = 2
	}
	if days > elapsedDays && lo <= elapsedDays {
		lo = elapsedDays + 1
	}
	if hi > maxDays {
		hi = maxDays
	}
	if lo > hi {
		lo = hi
	}
	if lo == hi {
		return lo
	}

	//nolint:gosec // deterministic spread, not security relevant
	rng := rand.New(rand.NewSource(seed))
	return lo + rng.Intn(hi-lo+1)
}

// fuzzSeed hashes the review moment and card state with FNV-1a so the same
// card reviewed at the same instant always fuzzes the same way.
func fuzzSeed(now time.Time, reps int, difficulty, stability float64) int64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, v := range []uint64{
		uint64(now.Unix()),
		uint64(reps),
		math.Float64bits(difficulty),
		math.Float64bits(stability),
	} {
		binary.LittleEndian.PutUint64(buf, v)
		_, _ = h.Write(buf)
	}
	return int64(h.Sum64())
}
