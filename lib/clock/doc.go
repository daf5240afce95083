// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for code that waits.
//
// The operation poller sleeps for minutes at a time and gives up after
// hours; the REST client backs off between retries. Both take a Clock
// so tests can drive them deterministically:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go func() { result <- poller.Wait(ctx, op) }()
//	c.WaitForTimers(1)  // the poller is now parked on its backoff wait
//	c.AdvanceToNext()   // fire exactly that wait
//
// # FakeClock Synchronization
//
// A goroutine calling After or Sleep on a FakeClock registers a pending
// timer. WaitForTimers blocks until the expected number of timers is
// registered, which removes the race between a goroutine reaching its
// wait and the test advancing time.
package clock
