// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/displayvideo/lib/operation"
)

// GetOperation fetches the current state of a long-running operation
// by its full resource name, e.g. "sdfdownloadtasks/operations/123".
// It satisfies operation.Fetcher.
func (client *Client) GetOperation(ctx context.Context, name string) (*operation.Operation, error) {
	if err := checkResourceName(name); err != nil {
		return nil, err
	}
	var result operation.Operation
	if err := client.get(ctx, name, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadMedia streams the media resource produced by a finished
// operation into w and returns the number of bytes written. The body
// is copied without a size bound.
func (client *Client) DownloadMedia(ctx context.Context, resourceName string, w io.Writer) (int64, error) {
	if err := checkResourceName(resourceName); err != nil {
		return 0, err
	}
	target := client.baseURL + "/download/" + resourceName + "?" + url.Values{"alt": {"media"}}.Encode()

	response, err := client.send(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, parseAPIError(response)
	}

	written, err := io.Copy(w, response.Body)
	if err != nil {
		return written, fmt.Errorf("displayvideo: downloading %s: %w", resourceName, err)
	}
	client.logger.Debug("media downloaded", "resource_name", resourceName, "bytes", written)
	return written, nil
}

// checkResourceName rejects names that would escape the intended
// path. Resource names are slash-separated and never absolute.
func checkResourceName(name string) error {
	if name == "" {
		return fmt.Errorf("displayvideo: empty resource name")
	}
	if strings.HasPrefix(name, "/") || strings.ContainsAny(name, "?#") {
		return fmt.Errorf("displayvideo: invalid resource name %q", name)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("displayvideo: invalid resource name %q", name)
		}
	}
	return nil
}
