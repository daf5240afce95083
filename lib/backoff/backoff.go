// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bureau-foundation/displayvideo/lib/clock"
)

// Defaults match the polling guidance for structured data file tasks:
// start at five seconds, never wait more than five minutes between
// checks, give up after five hours.
const (
	DefaultInitialInterval = 5 * time.Second
	DefaultMaxInterval     = 5 * time.Minute
	DefaultMaxElapsedTime  = 5 * time.Hour
	DefaultMultiplier      = 2.0
	DefaultJitter          = 1.0
)

// Policy configures the growth and ceiling of wait intervals.
type Policy struct {
	// InitialInterval is the first wait. Must be positive.
	InitialInterval time.Duration

	// MaxInterval caps every individual wait. Must be at least
	// InitialInterval.
	MaxInterval time.Duration

	// MaxElapsedTime bounds the total time from the generator's
	// creation to the end of the last wait it hands out. Must be at
	// least InitialInterval.
	MaxElapsedTime time.Duration

	// Multiplier is the mean growth factor between consecutive waits.
	// Zero selects DefaultMultiplier. Must be at least 1.
	Multiplier float64

	// Jitter scales how much of the growth step is randomized, from 0
	// (deterministic: every wait is exactly Multiplier times the last)
	// to 1 (factor drawn uniformly from [1, 2*Multiplier-1]).
	Jitter float64
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		MaxElapsedTime:  DefaultMaxElapsedTime,
		Multiplier:      DefaultMultiplier,
		Jitter:          DefaultJitter,
	}
}

// Validate reports the first constraint the policy violates.
func (policy Policy) Validate() error {
	if policy.InitialInterval <= 0 {
		return fmt.Errorf("backoff: initial interval must be positive (got %v)", policy.InitialInterval)
	}
	if policy.MaxInterval < policy.InitialInterval {
		return fmt.Errorf("backoff: max interval %v is shorter than initial interval %v",
			policy.MaxInterval, policy.InitialInterval)
	}
	if policy.MaxElapsedTime < policy.InitialInterval {
		return fmt.Errorf("backoff: max elapsed time %v is shorter than initial interval %v",
			policy.MaxElapsedTime, policy.InitialInterval)
	}
	if policy.Multiplier != 0 && policy.Multiplier < 1 {
		return fmt.Errorf("backoff: multiplier must be at least 1 (got %g)", policy.Multiplier)
	}
	if policy.Jitter < 0 || policy.Jitter > 1 {
		return fmt.Errorf("backoff: jitter must be within [0, 1] (got %g)", policy.Jitter)
	}
	return nil
}

// ErrInvalidPolicy wraps every error returned by NewExponential.
var ErrInvalidPolicy = errors.New("invalid backoff policy")

// Exponential generates one wait schedule. Create a fresh generator for
// every poll loop; the elapsed budget starts counting at creation (or
// at the last Reset).
type Exponential struct {
	policy Policy
	clock  clock.Clock
	random func() float64

	start   time.Time
	current time.Duration
	issued  int
	stopped bool
}

// NewExponential returns a generator for policy. random must return
// values in [0, 1); nil selects math/rand/v2.Float64.
func NewExponential(policy Policy, clk clock.Clock, random func() float64) (*Exponential, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	if policy.Multiplier == 0 {
		policy.Multiplier = DefaultMultiplier
	}
	if clk == nil {
		clk = clock.Real()
	}
	if random == nil {
		random = rand.Float64
	}
	return &Exponential{
		policy: policy,
		clock:  clk,
		random: random,
		start:  clk.Now(),
	}, nil
}

// Next returns the next wait. The boolean is false when the wait would
// exceed the elapsed-time budget; once false, it stays false until
// Reset.
func (generator *Exponential) Next() (time.Duration, bool) {
	if generator.stopped {
		return 0, false
	}

	next := generator.policy.InitialInterval
	if generator.issued > 0 {
		next = generator.grow(generator.current)
	}

	if generator.Elapsed()+next > generator.policy.MaxElapsedTime {
		generator.stopped = true
		return 0, false
	}

	generator.current = next
	generator.issued++
	return next, true
}

// Reset restarts the schedule at InitialInterval and restarts the
// elapsed-time budget from now.
func (generator *Exponential) Reset() {
	generator.start = generator.clock.Now()
	generator.current = 0
	generator.issued = 0
	generator.stopped = false
}

// Elapsed returns the time since the generator was created or reset.
func (generator *Exponential) Elapsed() time.Duration {
	return generator.clock.Now().Sub(generator.start)
}

// grow applies one randomized growth step to previous and caps it.
func (generator *Exponential) grow(previous time.Duration) time.Duration {
	multiplier := generator.policy.Multiplier
	spread := generator.policy.Jitter * (multiplier - 1)
	factor := multiplier + spread*(2*generator.random()-1)
	if factor < 1 {
		factor = 1
	}

	// Compare in floating point first: a five-hour interval times a
	// large multiplier overflows time.Duration.
	scaled := float64(previous) * factor
	if scaled >= float64(generator.policy.MaxInterval) {
		return generator.policy.MaxInterval
	}
	next := time.Duration(scaled)
	if next < previous {
		next = previous
	}
	return next
}
