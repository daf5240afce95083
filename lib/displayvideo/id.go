// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a 64-bit entity identifier (partner, advertiser, line item,
// ...). The API encodes int64 values as JSON strings; ID marshals that
// way and unmarshals either form.
type ID int64

// ParseID parses a positive decimal entity ID.
func ParseID(value string) (ID, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", value, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be positive", value)
	}
	return ID(parsed), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	parsed, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID %s: %w", data, err)
	}
	*id = ID(parsed)
	return nil
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
