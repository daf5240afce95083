// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal records every long-running operation this process
// submits or observes, in a local SQLite database.
//
// Each row holds the operation's latest state: queryable columns
// (done, error code and message, resource name, observation count,
// first and last seen times) plus a snapshot of the full operation
// encoded with lib/codec and compressed with lib/compress. The journal
// is what lets "operation wait" resume a wait started by an earlier
// process, and "operation list" show what is still pending.
//
// [Journal.Observer] adapts the journal to operation.PollerConfig's
// Observe hook. Recording failures there are logged and swallowed: a
// broken journal never stops a poll.
package journal
