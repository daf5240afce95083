// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/bureau-foundation/displayvideo/lib/backoff"
	"github.com/bureau-foundation/displayvideo/lib/netutil"
)

// DefaultRetryPolicy returns the waits used between attempts of one
// request: 1s doubling to at most 30s, with half jitter, abandoned
// after five minutes.
func DefaultRetryPolicy() backoff.Policy {
	return backoff.Policy{
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  5 * time.Minute,
		Multiplier:      2,
		Jitter:          0.5,
	}
}

// send performs a request with bounded retry. Connection failures,
// 429 and 5xx are retried until MaxAttempts or the retry policy's
// elapsed budget runs out; the final response (any status) or error
// is returned. The caller closes the response body.
//
// A POST is retried only when the server cannot have acted on it:
// a refused connection, 429 or 503. A Retry-After delay replaces the
// computed wait but is capped at the policy's MaxInterval, and no
// wait is taken that would end past MaxElapsedTime.
func (client *Client) send(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	schedule, err := backoff.NewExponential(client.retryPolicy, client.clock, nil)
	if err != nil {
		return nil, fmt.Errorf("displayvideo: %w", err)
	}

	for attempt := 1; ; attempt++ {
		request, err := client.newRequest(ctx, method, target, body)
		if err != nil {
			return nil, err
		}

		response, err := client.httpClient.Do(request)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			err = fmt.Errorf("displayvideo: %s %s: %w", method, redactQuery(target), err)
			if !isRetryableError(method, err) || attempt >= client.maxAttempts {
				return nil, err
			}
		} else if !isRetryableStatus(method, response.StatusCode) || attempt >= client.maxAttempts {
			return response, nil
		}

		wait, ok := schedule.Next()
		if ok && response != nil {
			if retryAfter := parseRetryAfter(response.Header, client.clock.Now()); retryAfter > 0 {
				wait = min(retryAfter, client.retryPolicy.MaxInterval)
				ok = schedule.Elapsed()+wait <= client.retryPolicy.MaxElapsedTime
			}
		}
		if !ok {
			if err != nil {
				return nil, err
			}
			return response, nil
		}

		attrs := []any{
			"method", method,
			"path", redactQuery(target),
			"attempt", attempt,
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		} else {
			attrs = append(attrs, "status", response.StatusCode)
			discard(response)
		}
		client.logger.Warn("transient API failure, retrying", append(attrs, "wait", wait)...)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-client.clock.After(wait):
		}
	}
}

// isRetryableStatus reports whether an HTTP status is worth another
// attempt: rate limiting or a server-side failure. A POST may already
// have taken effect on a generic 5xx, so only 429 and 503 qualify.
func isRetryableStatus(method string, statusCode int) bool {
	if statusCode == http.StatusTooManyRequests || statusCode == http.StatusServiceUnavailable {
		return true
	}
	return method != http.MethodPost && statusCode >= 500
}

// isRetryableError reports whether a transport failure is worth
// another attempt. A POST is retried only when the connection was
// refused, since any later failure may follow a delivered request.
func isRetryableError(method string, err error) bool {
	if method == http.MethodPost {
		return errors.Is(err, syscall.ECONNREFUSED)
	}
	return netutil.IsTransientNetError(err)
}

// parseRetryAfter reads a Retry-After header given either as delay
// seconds or as an HTTP date. Returns zero when absent, malformed, or
// already in the past.
func parseRetryAfter(header http.Header, now time.Time) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if date, err := http.ParseTime(value); err == nil {
		if delay := date.Sub(now); delay > 0 {
			return delay
		}
	}
	return 0
}

// discard drains a bounded amount of a response body and closes it so
// the connection can be reused.
func discard(response *http.Response) {
	io.Copy(io.Discard, io.LimitReader(response.Body, netutil.MaxResponseSize))
	response.Body.Close()
}
