package webhook

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes exponential retry delays with optional jitter:
// min(Initial * Multiplier^(attempt-1) * (1 ± Jitter), Max).
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// DefaultBackoff starts at one second and caps at thirty.
func DefaultBackoff() Backoff {
	return Backoff{Initial: time.Second, Max: 30 * time.Second, Multiplier: 2, Jitter: 0.1}
}

// Next returns the delay before retry number attempt, starting at 1.
func (b Backoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	initial := cmpOr(b.Initial, time.Second)
	ceiling := cmpOr(b.Max, 30*time.Second)
	mult := b.Multiplier
	if mult <= 0 {
		mult = 2
	}

	d := float64(initial) * math.Pow(mult, float64(attempt-1))
	if b.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*b.Jitter
	}
	return min(time.Duration(d), ceiling)
}

func cmpOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
