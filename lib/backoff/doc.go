// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backoff computes the wait schedule between status checks of
// a long-running remote operation.
//
// A [Policy] is pure configuration. An [Exponential] generator owns the
// mutable state of one schedule: the current interval and the start
// time against which the elapsed budget is measured. Generators are
// not safe for concurrent use and are never shared between poll loops.
//
// The schedule starts at InitialInterval. Each later wait is the
// previous wait times a random factor centred on Multiplier and drawn
// from [1, 2*Multiplier-1] (narrowed by Jitter), capped at MaxInterval.
// Because the factor never drops below one, the schedule is
// non-decreasing until it saturates at MaxInterval. The generator
// reports stop once the next wait would carry the elapsed time, as read
// from the injected clock, past MaxElapsedTime.
package backoff
