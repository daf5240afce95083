// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"

	"github.com/bureau-foundation/displayvideo/cmd/dv360/cli"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
)

// idList is a repeatable, comma-separated list of API IDs.
type idList []displayvideo.ID

func (list *idList) String() string {
	parts := make([]string, len(*list))
	for i, id := range *list {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func (list *idList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		id, err := displayvideo.ParseID(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		*list = append(*list, id)
	}
	return nil
}

func (list *idList) Type() string { return "ids" }

// optionalID is an API ID flag that may be left unset.
type optionalID displayvideo.ID

func (id *optionalID) String() string {
	if *id == 0 {
		return ""
	}
	return displayvideo.ID(*id).String()
}

func (id *optionalID) Set(value string) error {
	parsed, err := displayvideo.ParseID(value)
	if err != nil {
		return err
	}
	*id = optionalID(parsed)
	return nil
}

func (id *optionalID) Type() string { return "id" }

// parseIDArg parses a positional ID argument.
func parseIDArg(name, value string) (displayvideo.ID, error) {
	id, err := displayvideo.ParseID(value)
	if err != nil {
		return 0, cli.Validation("%s: %w", name, err)
	}
	return id, nil
}
