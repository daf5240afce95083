// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package displayvideo is a typed client for the Display & Video 360
// REST API.
//
// The client covers the structured data file workflow (create a
// download task, fetch long-running operation status, download the
// generated media), user listing with filter expressions, and
// targeting option listing. List endpoints return a [PageIterator]
// that follows pageToken/nextPageToken until the server stops
// returning a token.
//
// Requests authenticate with a static OAuth bearer token. Connection
// failures, HTTP 429 and 5xx responses are retried a bounded number of
// times with exponential waits on the injected clock; a Retry-After
// header overrides the computed wait. Other 4xx responses are returned
// immediately as *APIError.
//
// All requests are made over HTTPS. The client refuses non-HTTPS base
// URLs.
package displayvideo
