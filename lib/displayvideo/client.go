// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/bureau-foundation/displayvideo/lib/backoff"
	"github.com/bureau-foundation/displayvideo/lib/clock"
	"github.com/bureau-foundation/displayvideo/lib/netutil"
)

// DefaultBaseURL is the public Display & Video 360 API endpoint.
const DefaultBaseURL = "https://displayvideo.googleapis.com"

// DefaultVersion is the API version used when Config.Version is empty.
const DefaultVersion = "v4"

// DefaultMaxAttempts bounds how many times one request is sent when
// every attempt fails transiently.
const DefaultMaxAttempts = 4

const defaultUserAgent = "dv360-go"

// SupportedVersions lists the API versions the client accepts.
var SupportedVersions = []string{"v1", "v2", "v3", "v4"}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// DefaultBaseURL. Must use HTTPS.
	BaseURL string

	// Version is the API version path segment, one of
	// SupportedVersions. Defaults to DefaultVersion.
	Version string

	// Token is the OAuth 2.0 access token sent as a bearer credential.
	// Required.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time for retry waits. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxAttempts bounds sends per request, including the first.
	// Defaults to DefaultMaxAttempts. One disables retry.
	MaxAttempts int

	// RetryPolicy shapes the waits between attempts. Defaults to
	// DefaultRetryPolicy().
	RetryPolicy backoff.Policy

	// UserAgent is sent on every request.
	UserAgent string
}

// Client is a typed Display & Video 360 API client. A Client is safe
// for concurrent use.
type Client struct {
	baseURL     string
	version     string
	token       string
	userAgent   string
	httpClient  *http.Client
	clock       clock.Clock
	logger      *slog.Logger
	maxAttempts int
	retryPolicy backoff.Policy
}

// NewClient creates a client from config. Returns an error for a
// non-HTTPS base URL, a missing token, an unknown version, or an
// invalid retry policy.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("displayvideo: API client requires HTTPS (got %q)", baseURL)
	}

	version := config.Version
	if version == "" {
		version = DefaultVersion
	}
	if !slices.Contains(SupportedVersions, version) {
		return nil, fmt.Errorf("displayvideo: unsupported API version %q (want one of %s)",
			version, strings.Join(SupportedVersions, ", "))
	}

	if config.Token == "" {
		return nil, fmt.Errorf("displayvideo: no access token configured")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxAttempts := config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	retryPolicy := config.RetryPolicy
	if retryPolicy == (backoff.Policy{}) {
		retryPolicy = DefaultRetryPolicy()
	}
	if err := retryPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("displayvideo: retry policy: %w", err)
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:     baseURL,
		version:     version,
		token:       config.Token,
		userAgent:   userAgent,
		httpClient:  httpClient,
		clock:       clk,
		logger:      logger,
		maxAttempts: maxAttempts,
		retryPolicy: retryPolicy,
	}, nil
}

// Version returns the API version the client addresses.
func (client *Client) Version() string {
	return client.version
}

// apiURL builds the URL of a versioned API resource. The path is
// relative to the version segment and may contain ':' custom verbs.
func (client *Client) apiURL(path string, query url.Values) string {
	target := client.baseURL + "/" + client.version + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// do sends a JSON request through the retry loop and decodes a 2xx
// body into result (skipped when result is nil). Non-2xx responses
// become *APIError.
func (client *Client) do(ctx context.Context, method, target string, requestBody, result any) error {
	var encoded []byte
	if requestBody != nil {
		var err error
		encoded, err = json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("displayvideo: encoding request body: %w", err)
		}
	}

	response, err := client.send(ctx, method, target, encoded)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fmt.Errorf("displayvideo: reading response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return parseAPIErrorFromBody(response.StatusCode, body)
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("displayvideo: decoding %s %s response: %w", method, redactQuery(target), err)
	}
	return nil
}

func (client *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return client.do(ctx, http.MethodGet, client.apiURL(path, query), nil, result)
}

func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPost, client.apiURL(path, nil), requestBody, result)
}

// newRequest builds one attempt of a request with the standard
// headers.
func (client *Client) newRequest(ctx context.Context, method, target string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("displayvideo: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.token)
	request.Header.Set("User-Agent", client.userAgent)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return request, nil
}

// redactQuery drops the query string from a URL for log and error
// messages. Filters can carry email addresses.
func redactQuery(target string) string {
	if index := strings.IndexByte(target, '?'); index >= 0 {
		return target[:index]
	}
	return target
}
