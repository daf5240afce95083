// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dv360 is a command-line client for the Display & Video 360 API.
//
// Its main workflow generates structured data files: "dv360 sdf
// download" creates a download task, polls the resulting long-running
// operation with exponential backoff, and saves the archive. The same
// poller backs "dv360 operation wait" for resuming a task later, and
// every operation the tool sees is recorded in a local SQLite journal
// ("dv360 operation list").
//
// Usage:
//
//	dv360 sdf download --advertiser-id ID --version SDF_VERSION_7_1 \
//	    --file-types FILE_TYPE_CAMPAIGN --filter-type FILTER_TYPE_ADVERTISER_ID \
//	    --filter-ids ID -o sdf.zip
//	dv360 sdf inspect sdf.zip
//	dv360 operation get|wait|list
//	dv360 users list [filters]
//	dv360 targeting assigned|options
//	dv360 config show
package main
