// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bureau-foundation/displayvideo/lib/netutil"
)

// APIError represents a non-2xx response from the API. Google APIs
// return a JSON envelope {"error": {"code", "message", "status",
// "details"}}; bodies that do not parse keep their raw text in
// Message.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Status is the canonical error name, e.g. "INVALID_ARGUMENT".
	Status string

	// Message is the human-readable description from the server.
	Message string

	// Details holds the typed error details verbatim.
	Details []map[string]any
}

func (err *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "displayvideo: HTTP %d", err.StatusCode)
	if err.Status != "" {
		fmt.Fprintf(&builder, " %s", err.Status)
	}
	if err.Message != "" {
		fmt.Fprintf(&builder, ": %s", err.Message)
	}
	return builder.String()
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsInvalidArgument reports whether err is a 400 response.
func IsInvalidArgument(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusBadRequest
}

// IsRateLimited reports whether err is a quota or rate limit response.
func IsRateLimited(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.StatusCode == http.StatusTooManyRequests || apiError.Status == "RESOURCE_EXHAUSTED"
}

// IsTransient reports whether err is the kind of failure the client
// retries on a GET: a connection failure, a rate limit, or a 5xx
// response.
func IsTransient(err error) bool {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return isRetryableStatus(http.MethodGet, apiError.StatusCode)
	}
	return netutil.IsTransientNetError(err)
}

// parseAPIError reads an error body from a response.
func parseAPIError(response *http.Response) *APIError {
	return parseAPIErrorFromBody(response.StatusCode, []byte(netutil.ErrorBody(response.Body)))
}

// parseAPIErrorFromBody parses the Google error envelope.
func parseAPIErrorFromBody(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var envelope struct {
		Error struct {
			Code    int              `json:"code"`
			Message string           `json:"message"`
			Status  string           `json:"status"`
			Details []map[string]any `json:"details"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		apiError.Status = envelope.Error.Status
		apiError.Message = envelope.Error.Message
		apiError.Details = envelope.Error.Details
	} else {
		apiError.Message = strings.TrimSpace(string(body))
	}
	return apiError
}
