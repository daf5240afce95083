// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the binary entrypoint's last-resort error
// reporting, used when the structured logger may not exist yet.
package process
