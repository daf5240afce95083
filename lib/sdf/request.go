// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
)

// ParseRequest strips JSONC comments and trailing commas from data,
// decodes the result as a task request, and validates it. Unknown
// fields are rejected so a misspelled filter does not silently widen
// the download.
func ParseRequest(data []byte) (*displayvideo.CreateSdfDownloadTaskRequest, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()

	var request displayvideo.CreateSdfDownloadTaskRequest
	if err := decoder.Decode(&request); err != nil {
		return nil, fmt.Errorf("parsing SDF request: %w", err)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return &request, nil
}

// ReadRequest reads and parses a JSONC request file.
func ReadRequest(path string) (*displayvideo.CreateSdfDownloadTaskRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	request, err := ParseRequest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return request, nil
}
