// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package operation models long-running server operations and drives
// them from pending to terminal.
//
// An [Operation] is created by the remote service when it accepts a
// long-running request and is only ever replaced by a fresher copy
// fetched from the service. A [Poller] re-fetches it on a
// [backoff.Exponential] schedule until it is done, the elapsed budget
// runs out, the fetch fails, or the context is cancelled.
//
// The three results a caller must tell apart after [Poller.Wait]
// returns without error are given by [Operation.Outcome]:
//
//   - [OutcomeFailed]: done with an error status; the success payload
//     must not be used.
//   - [OutcomeSucceeded]: done without error; [Operation.ResourceName]
//     locates the produced artifact.
//   - [OutcomePending]: the budget ran out first. This is a soft
//     timeout, not an error; the caller may start a fresh poller later.
//
// A failed operation is data, not a Go error. [Status.Err] converts it
// for callers that want to return it.
package operation
