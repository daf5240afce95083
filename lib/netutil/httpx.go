// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response reads and classifies transport
// failures.
//
// ReadResponse and ErrorBody cap reads of JSON API
// bodies at MaxResponseSize. Media downloads are streamed with io.Copy
// and do not go through these helpers.
package netutil

import "io"

// MaxResponseSize bounds JSON API response reads: 64 MB.
const MaxResponseSize int64 = 64 << 20

// maxErrorBody bounds how much of an error body is kept for messages.
const maxErrorBody = 4 << 10

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody returns at most the first 4 KB of an error response for
// use in diagnostics. Read errors are ignored.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return string(data)
}
