// Package backoff provides delay strategies for spacing out task retries.
package backoff

import (
	"math/rand"
	"sync"
	"time"
)

// maxShift caps the exponent so the bit shift below cannot overflow.
const maxShift = 62

// Strategy computes the delay to apply before a retry attempt.
// attempt is 0-indexed: 0 is the delay before the first retry.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Fixed returns a strategy that waits the same duration before every retry.
func Fixed(d time.Duration) Strategy {
	return fixed(d)
}

type fixed time.Duration

func (f fixed) Delay(int) time.Duration {
	if f < 0 {
		return 0
	}
	return time.Duration(f)
}

// Exponential returns a strategy whose delay doubles with each retry:
// initial, 2*initial, 4*initial, ... capped at max.
func Exponential(initial, max time.Duration) Strategy {
	return &exponential{initial: initial, max: max}
}

type exponential struct {
	initial time.Duration
	max     time.Duration
}

func (e *exponential) Delay(attempt int) time.Duration {
	return expDelay(attempt, e.initial, e.max)
}

// Jittered returns an exponential strategy with randomization to avoid
// synchronized retry bursts. factor is the relative jitter width, clamped to
// [0, 1]: with factor 0.1 each delay lands within ±10% of the exponential
// base delay.
func Jittered(initial, max time.Duration, factor float64) Strategy {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return &jittered{
		initial: initial,
		max:     max,
		factor:  factor,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- crypto rand not needed for jitter
	}
}

type jittered struct {
	initial time.Duration
	max     time.Duration
	factor  float64
	mu      sync.Mutex
	rng     *rand.Rand
}

func (j *jittered) Delay(attempt int) time.Duration {
	base := expDelay(attempt, j.initial, j.max)

	j.mu.Lock()
	mult := 1.0 + (j.rng.Float64()*2-1)*j.factor
	j.mu.Unlock()

	d := time.Duration(float64(base) * mult)
	if d < 0 {
		return 0
	}
	if d > j.max {
		return j.max
	}
	return d
}

func expDelay(attempt int, initial, max time.Duration) time.Duration {
	if attempt < 0 || initial <= 0 {
		return 0
	}
	if attempt >= maxShift {
		return max
	}

	d := time.Duration(int64(1)<<uint(attempt)) * initial
	if d > max || d < 0 {
		return max
	}
	return d
}
