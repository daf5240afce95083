// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/displayvideo/lib/backoff"
	"github.com/bureau-foundation/displayvideo/lib/clock"
)

// Fetcher returns the current state of an operation. Implementations
// own any retrying of transport failures; the poller does not retry.
type Fetcher interface {
	GetOperation(ctx context.Context, name string) (*Operation, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, name string) (*Operation, error)

// GetOperation calls f.
func (f FetcherFunc) GetOperation(ctx context.Context, name string) (*Operation, error) {
	return f(ctx, name)
}

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Fetcher re-reads the operation after every wait. Required.
	Fetcher Fetcher

	// Policy shapes the wait schedule. Zero value selects
	// backoff.DefaultPolicy().
	Policy backoff.Policy

	// Clock provides waits and elapsed time. Defaults to clock.Real().
	Clock clock.Clock

	// Random supplies jitter in [0, 1). Defaults to math/rand/v2.
	Random func() float64

	// Logger receives one debug line per status check and an info line
	// on soft timeout. Defaults to slog.Default().
	Logger *slog.Logger

	// Observe, when set, is called with every operation the poller
	// fetches, in fetch order. It must not retain or modify the
	// operation.
	Observe func(*Operation)
}

// Poller waits for long-running operations. A Poller holds only
// configuration; every Wait builds its own backoff schedule, so one
// Poller may serve sequential waits on different operations.
type Poller struct {
	fetcher Fetcher
	policy  backoff.Policy
	clock   clock.Clock
	random  func() float64
	logger  *slog.Logger
	observe func(*Operation)
}

// NewPoller validates config and returns a Poller.
func NewPoller(config PollerConfig) (*Poller, error) {
	if config.Fetcher == nil {
		return nil, errors.New("operation: poller requires a Fetcher")
	}

	policy := config.Policy
	if policy == (backoff.Policy{}) {
		policy = backoff.DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("operation: %w", err)
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		fetcher: config.Fetcher,
		policy:  policy,
		clock:   clk,
		random:  config.Random,
		logger:  logger,
		observe: config.Observe,
	}, nil
}

// Wait polls op until it is done or the elapsed budget is exhausted,
// and returns the last operation observed.
//
// A soft timeout returns the still-pending operation and a nil error.
// A failing fetch returns that error unchanged, after exactly the one
// failed call. Context cancellation ends the current wait early and
// returns the last observed operation together with ctx.Err().
//
// Status checks are strictly sequential.
func (poller *Poller) Wait(ctx context.Context, op *Operation) (*Operation, error) {
	if op == nil {
		return nil, errors.New("operation: Wait called with nil operation")
	}

	schedule, err := backoff.NewExponential(poller.policy, poller.clock, poller.random)
	if err != nil {
		return nil, err
	}

	current := op
	checks := 0
	for !current.Done {
		wait, ok := schedule.Next()
		if !ok {
			poller.logger.Info("operation did not complete within the allotted time",
				"operation", current.Name,
				"elapsed", schedule.Elapsed(),
				"checks", checks,
				"max_elapsed_time", poller.policy.MaxElapsedTime,
			)
			return current, nil
		}

		poller.logger.Debug("operation still running, waiting",
			"operation", current.Name,
			"wait", wait,
		)

		select {
		case <-ctx.Done():
			return current, ctx.Err()
		case <-poller.clock.After(wait):
		}

		next, err := poller.fetcher.GetOperation(ctx, current.Name)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, fmt.Errorf("operation: fetcher returned no operation for %s", current.Name)
		}
		checks++
		if poller.observe != nil {
			poller.observe(next)
		}
		current = next
	}

	poller.logger.Debug("operation finished",
		"operation", current.Name,
		"outcome", current.Outcome(),
		"checks", checks,
		"elapsed", schedule.Elapsed(),
	)
	return current, nil
}
