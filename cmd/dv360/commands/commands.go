// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the dv360 command tree.
package commands

import (
	"github.com/bureau-foundation/displayvideo/cmd/dv360/cli"
)

// Root builds and returns the complete dv360 command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "dv360",
		Description: `dv360: Display & Video 360 API toolkit.

Generate and download structured data files, follow long-running
operations, and browse users and targeting options.

Authentication uses an OAuth 2.0 access token read from the environment
(DV360_ACCESS_TOKEN unless the configuration names another variable).`,
		Subcommands: []*cli.Command{
			sdfCommand(),
			operationCommand(),
			usersCommand(),
			targetingCommand(),
			configCommand(),
		},
	}
}
