// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] bounds how long a test waits on a channel fed by a
// goroutine driven through a fake clock. It is the only place tests
// touch the wall clock.
//
// [WriteFixture] places a file under t.TempDir() and returns its path.
//
// All helpers fail the test on error rather than returning one.
package testutil
