// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfterFiresAtDeadline(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(5 * time.Second)

	clock.Advance(3 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before deadline")
	default:
	}

	clock.Advance(2 * time.Second)
	select {
	case <-channel:
	default:
		t.Fatal("After did not fire at exact deadline")
	}
	if clock.PendingTimers() != 0 {
		t.Errorf("PendingTimers() = %d after firing, want 0", clock.PendingTimers())
	}
}

func TestFakeClockAfterNonPositive(t *testing.T) {
	clock := Fake(epoch)
	for _, d := range []time.Duration{0, -time.Second} {
		select {
		case <-clock.After(d):
		default:
			t.Fatalf("After(%v) should fire immediately", d)
		}
	}
	if clock.PendingTimers() != 0 {
		t.Errorf("non-positive After registered %d timers", clock.PendingTimers())
	}
}

func TestFakeClockAdvanceToNext(t *testing.T) {
	clock := Fake(epoch)
	late := clock.After(10 * time.Second)
	early := clock.After(4 * time.Second)

	if step := clock.AdvanceToNext(); step != 4*time.Second {
		t.Fatalf("AdvanceToNext() = %v, want 4s", step)
	}
	select {
	case <-early:
	default:
		t.Fatal("earliest timer did not fire")
	}
	select {
	case <-late:
		t.Fatal("later timer fired early")
	default:
	}

	if step := clock.AdvanceToNext(); step != 6*time.Second {
		t.Fatalf("second AdvanceToNext() = %v, want 6s", step)
	}
	if got := clock.Now(); !got.Equal(epoch.Add(10 * time.Second)) {
		t.Errorf("Now() = %v, want epoch+10s", got)
	}
	if step := clock.AdvanceToNext(); step != 0 {
		t.Errorf("AdvanceToNext() with no timers = %v, want 0", step)
	}
}

func TestFakeClockSleepWithWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	done := make(chan struct{})
	go func() {
		clock.Sleep(time.Minute)
		close(done)
	}()

	clock.WaitForTimers(1)
	clock.Advance(time.Minute)

	select {
	case <-done:
	case <-time.After(5 * time.Second): //nolint:realclock test hang prevention
		t.Fatal("Sleep did not return after Advance")
	}
}
