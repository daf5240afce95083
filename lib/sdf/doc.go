// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sdf runs the structured data file workflow end to end:
// submit a download task, wait for its operation, and save the
// resulting archive.
//
// The flow:
//
//  1. ReadRequest or ParseRequest: JSONC task definition →
//     displayvideo.CreateSdfDownloadTaskRequest
//  2. Runner.Run: create the task, poll it with an operation.Poller,
//     and on success download the archive with Save
//  3. Inspect: list the CSV files inside a saved archive
//
// A soft timeout is not an error. Run returns a Result whose Outcome
// is operation.OutcomePending and whose Operation.Name can be handed
// to Runner.Resume later.
package sdf
