// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time stands still until
// Advance or AdvanceToNext is called.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.timersChanged = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a deterministic Clock for tests. Every After or Sleep
// registers a one-shot timer that fires when the clock is advanced to
// or past its deadline.
type FakeClock struct {
	mu            sync.Mutex
	current       time.Time
	timers        []*fakeTimer
	timersChanged *sync.Cond
}

type fakeTimer struct {
	deadline time.Time
	channel  chan time.Time
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock reaches
// now+d. Non-positive durations fire immediately and do not register
// a timer.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}

	c.timers = append(c.timers, &fakeTimer{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.timersChanged.Broadcast()
	return channel
}

// Sleep blocks until the clock has been advanced past now+d.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// Advance moves the clock forward by d and fires, in deadline order,
// every timer whose deadline is not after the new time.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current

	var expired, remaining []*fakeTimer
	for _, timer := range c.timers {
		if timer.deadline.After(target) {
			remaining = append(remaining, timer)
		} else {
			expired = append(expired, timer)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].deadline.Before(expired[j].deadline)
	})
	for _, timer := range expired {
		// Buffered with capacity 1 and fired once, so this never blocks.
		timer.channel <- target
	}
}

// AdvanceToNext moves the clock exactly to the earliest pending
// deadline and fires the timers due at that instant. Returns the
// distance advanced, or zero if no timer is pending.
func (c *FakeClock) AdvanceToNext() time.Duration {
	c.mu.Lock()
	if len(c.timers) == 0 {
		c.mu.Unlock()
		return 0
	}
	earliest := c.timers[0].deadline
	for _, timer := range c.timers[1:] {
		if timer.deadline.Before(earliest) {
			earliest = timer.deadline
		}
	}
	step := earliest.Sub(c.current)
	c.mu.Unlock()

	c.Advance(step)
	return step
}

// WaitForTimers blocks until at least n timers are pending.
//
//	go func() { fakeClock.Sleep(5 * time.Second) }()
//	fakeClock.WaitForTimers(1)
//	fakeClock.Advance(5 * time.Second)
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) < n {
		c.timersChanged.Wait()
	}
}

// PendingTimers returns the number of registered timers that have not
// fired yet.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
