package srs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultWeights are the published FSRS-5 model weights w0..w18.
var DefaultWeights = [19]float64{
	0.4072,  // w0  initial stability, again
	1.1829,  // w1  initial stability, hard
	3.1262,  // w2  initial stability, good
	15.4722, // w3  initial stability, easy
	7.2102,  // w4  initial difficulty
	0.5316,  // w5  initial difficulty slope
	1.0651,  // w6  difficulty delta per grade
	0.0046,  // w7  difficulty mean reversion
	1.5418,  // w8  recall stability scale
	0.1594,  // w9  recall stability decay
	1.01,    // w10 recall stability retrievability factor
	2.1791,  // w11 forget stability scale
	0.0292,  // w12 forget stability difficulty exponent
	0.2788,  // w13 forget stability stability exponent
	0.2229,  // w14 forget stability retrievability factor
	0.2604,  // w15 hard penalty
	3.3928,  // w16 easy bonus
	0.2223,  // w17 short-term stability
	0.6744,  // w18 short-term stability offset
}

// MaxIntervalDays is the longest interval the model schedules. Longer
// intervals would overflow time.Duration.
const MaxIntervalDays = 36500

// Params configures the memory model.
type Params struct {
	// Weights are the 19 FSRS model weights.
	Weights [19]float64

	// DesiredRetention is the recall probability intervals are sized for.
	DesiredRetention float64

	// MaximumIntervalDays caps any review interval.
	MaximumIntervalDays int

	// LearningSteps are the short delays a new card climbs before graduating.
	LearningSteps []time.Duration

	// RelearningSteps are the delays a lapsed card climbs before returning to review.
	RelearningSteps []time.Duration

	// EnableFuzz spreads review intervals deterministically to avoid clustering.
	EnableFuzz bool
}

// ParamsConfig allows overriding the defaults when building Params from configuration.
// Zero values keep the default.
type ParamsConfig struct {
	DesiredRetention       float64
	MaximumIntervalDays    int
	LearningStepsMinutes   []int
	RelearningStepsMinutes []int
	EnableFuzz             bool
}

// Parameter validation errors
var (
	ErrInvalidWeights   = errors.New("invalid model weights")
	ErrInvalidRetention = errors.New("desired retention must be between 0 and 1 exclusive")
	ErrInvalidMaximum   = errors.New("maximum interval must be between 1 and 36500 days")
	ErrInvalidSteps     = errors.New("learning steps must be non-empty and positive")
)

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		Weights:             DefaultWeights,
		DesiredRetention:    0.9,
		MaximumIntervalDays: MaxIntervalDays,
		LearningSteps:       []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:     []time.Duration{10 * time.Minute},
		EnableFuzz:          false,
	}
}

// NewParams creates Params from configuration and validates the result.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.DesiredRetention != 0 {
		params.DesiredRetention = config.DesiredRetention
	}
	if config.MaximumIntervalDays != 0 {
		params.MaximumIntervalDays = config.MaximumIntervalDays
	}
	if len(config.LearningStepsMinutes) > 0 {
		params.LearningSteps = minutesToDurations(config.LearningStepsMinutes)
	}
	if len(config.RelearningStepsMinutes) > 0 {
		params.RelearningSteps = minutesToDurations(config.RelearningStepsMinutes)
	}
	params.EnableFuzz = config.EnableFuzz

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// Validate checks that the parameters describe a usable model.
func (p *Params) Validate() error {
	for i, w := range p.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: w[%d] is %v", ErrInvalidWeights, i, w)
		}
	}
	for i := 0; i < 4; i++ {
		if p.Weights[i] <= 0 {
			return fmt.Errorf("%w: initial stability w[%d] must be positive", ErrInvalidWeights, i)
		}
	}

	if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidRetention, p.DesiredRetention)
	}

	if p.MaximumIntervalDays < 1 || p.MaximumIntervalDays > MaxIntervalDays {
		return fmt.Errorf("%w: got %d", ErrInvalidMaximum, p.MaximumIntervalDays)
	}

	if err := validateSteps("learning", p.LearningSteps); err != nil {
		return err
	}
	return validateSteps("relearning", p.RelearningSteps)
}

func validateSteps(name string, steps []time.Duration) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: %s steps are empty", ErrInvalidSteps, name)
	}
	for i, step := range steps {
		if step <= 0 {
			return fmt.Errorf("%w: %s step %d is %s", ErrInvalidSteps, name, i, step)
		}
	}
	return nil
}

func minutesToDurations(minutes []int) []time.Duration {
	steps := make([]time.Duration, len(minutes))
	for i, m := range minutes {
		steps[i] = time.Duration(m) * time.Minute
	}
	return steps
}
