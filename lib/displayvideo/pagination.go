// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"strconv"
)

// PageIterator lazily fetches pages from a list endpoint. Each call to
// Next sends one request carrying the previous page's nextPageToken.
// Returns nil, nil once the server has stopped returning a token.
//
// Pages are fetched strictly in order. A failed page fetch is returned
// as-is; transient failures have already been retried by the client.
//
// The iterator is not safe for concurrent use.
type PageIterator[T any] struct {
	client     *Client
	path       string
	query      url.Values
	itemsField string
	pageToken  string
	pages      int
	done       bool
}

// listPages creates an iterator over path. itemsField names the JSON
// array holding each page's items.
func listPages[T any](client *Client, path string, query url.Values, itemsField string, pageSize int) *PageIterator[T] {
	query = maps.Clone(query)
	if query == nil {
		query = url.Values{}
	}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	return &PageIterator[T]{
		client:     client,
		path:       path,
		query:      query,
		itemsField: itemsField,
	}
}

// Next fetches the next page. A page with no items returns an empty,
// non-nil slice; nil, nil means iteration is complete.
func (iterator *PageIterator[T]) Next(ctx context.Context) ([]T, error) {
	if iterator.done {
		return nil, nil
	}

	query := maps.Clone(iterator.query)
	if iterator.pageToken != "" {
		query.Set("pageToken", iterator.pageToken)
	}

	var page map[string]json.RawMessage
	if err := iterator.client.get(ctx, iterator.path, query, &page); err != nil {
		return nil, err
	}
	iterator.pages++

	items := []T{}
	if raw, ok := page[iterator.itemsField]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("displayvideo: decoding %s page %d: %w", iterator.itemsField, iterator.pages, err)
		}
		if items == nil {
			items = []T{}
		}
	}

	iterator.pageToken = ""
	if raw, ok := page["nextPageToken"]; ok {
		if err := json.Unmarshal(raw, &iterator.pageToken); err != nil {
			return nil, fmt.Errorf("displayvideo: decoding nextPageToken: %w", err)
		}
	}
	if iterator.pageToken == "" {
		iterator.done = true
	}
	return items, nil
}

// Pages returns how many pages have been fetched so far.
func (iterator *PageIterator[T]) Pages() int {
	return iterator.pages
}

// Collect fetches all remaining pages and concatenates their items.
// On error the items gathered so far are returned with it.
func (iterator *PageIterator[T]) Collect(ctx context.Context) ([]T, error) {
	var all []T
	for {
		items, err := iterator.Next(ctx)
		if err != nil {
			return all, err
		}
		if items == nil {
			return all, nil
		}
		all = append(all, items...)
	}
}
