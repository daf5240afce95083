// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations used by polling and retry loops.
// Production code injects Real(); tests inject Fake() and move time
// forward explicitly.
//
// Code that waits between remote calls (the operation poller, the REST
// client's retry loop) must take a Clock instead of calling time.Now,
// time.After, or time.Sleep directly, so that multi-hour wait budgets
// can be exercised in microseconds.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0 the channel is ready
	// immediately.
	After(d time.Duration) <-chan time.Time

	// Sleep blocks the calling goroutine for at least d.
	Sleep(d time.Duration)
}
