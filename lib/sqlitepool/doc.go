// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens SQLite connection pools with a fixed set of
// pragmas.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool. Callers [Pool.Take]
// a connection, use it, and [Pool.Put] it back, or hand a function to
// [Pool.With]. A connection is never shared between goroutines.
//
// Every connection gets:
//
//   - journal_mode=WAL, so readers never block the writer;
//   - synchronous=NORMAL, durable across process crashes;
//   - busy_timeout (5s by default) instead of immediate SQLITE_BUSY;
//   - temp_store=MEMORY.
//
// Schema setup belongs in Config.OnConnect and must be idempotent
// (CREATE ... IF NOT EXISTS), since it runs once per connection.
package sqlitepool
