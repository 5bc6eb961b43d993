// Package backoff computes the delay before a failed job is redelivered.
// A job's retries budget says how many redeliveries are allowed; a
// Strategy says how long to wait before each one. All strategies are
// stateless and safe for concurrent use.
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before a retry.
type Strategy interface {
	// Delay returns how long to wait before retry n. Retry 1 is the first
	// redelivery after the initial attempt failed.
	Delay(retry uint32) time.Duration
}

// Func adapts a plain function to Strategy.
type Func func(retry uint32) time.Duration

// Delay calls f.
func (f Func) Delay(retry uint32) time.Duration { return f(retry) }

// ──────────────────────────────────────────────────
// Constant
// ──────────────────────────────────────────────────

// Constant waits the same interval before every retry.
type Constant struct {
	Interval time.Duration
}

// NewConstant creates a constant backoff strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(_ uint32) time.Duration {
	return c.Interval
}

// ──────────────────────────────────────────────────
// Linear
// ──────────────────────────────────────────────────

// Linear waits Step longer before each retry, up to Max.
type Linear struct {
	Step time.Duration
	Max  time.Duration
}

// NewLinear creates a linear backoff strategy.
func NewLinear(step, maxDelay time.Duration) *Linear {
	return &Linear{Step: step, Max: maxDelay}
}

// Delay returns Step * retry, capped at Max.
func (l *Linear) Delay(retry uint32) time.Duration {
	return capAt(float64(l.Step)*float64(retry), l.Max)
}

// ──────────────────────────────────────────────────
// Exponential
// ──────────────────────────────────────────────────

// Exponential doubles the delay before each retry, up to Max. With Jitter
// set the delay is drawn uniformly from [0, computed delay] so that many
// jobs failing together do not come back together.
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  bool
}

// NewExponential creates an exponential backoff strategy without jitter.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

// NewExponentialWithJitter creates an exponential backoff with full jitter.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay, Jitter: true}
}

// Delay returns Initial * 2^(retry-1), capped at Max, jittered if enabled.
func (e *Exponential) Delay(retry uint32) time.Duration {
	if retry == 0 {
		retry = 1
	}
	d := capAt(float64(e.Initial)*math.Exp2(float64(retry-1)), e.Max)
	if e.Jitter {
		return time.Duration(rand.Float64() * float64(d)) //nolint:gosec // jitter intentionally uses non-crypto rand
	}
	return d
}

// capAt converts d to a Duration, limited to maxDelay when it is positive
// and to the largest representable Duration otherwise.
func capAt(d float64, maxDelay time.Duration) time.Duration {
	if maxDelay > 0 && d > float64(maxDelay) {
		return maxDelay
	}
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// ──────────────────────────────────────────────────
// Schedule
// ──────────────────────────────────────────────────

// Schedule lists the delays s produces for a job with the given retries
// budget, one per redelivery.
func Schedule(s Strategy, retries uint32) []time.Duration {
	out := make([]time.Duration, 0, retries)
	for n := uint32(1); n <= retries; n++ {
		out = append(out, s.Delay(n))
	}
	return out
}

// DefaultStrategy returns the backoff used when none is configured:
// exponential with full jitter, 1s initial and 1m max.
func DefaultStrategy() Strategy {
	return NewExponentialWithJitter(1*time.Second, 1*time.Minute)
}
