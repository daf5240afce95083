// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/displayvideo/cmd/dv360/cli"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Inspect the configuration",
		Subcommands: []*cli.Command{
			configShowCommand(),
		},
	}
}

type configShowParams struct {
	cli.Globals
	cli.JSONOutput
}

func configShowCommand() *cli.Command {
	var params configShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective configuration",
		Description: `Print the configuration after defaults, environment overrides, and
variable expansion, as YAML (or JSON with --json). The access token is
never printed; only the name of the variable that holds it.`,
		Flags: func() *pflag.FlagSet {
			params = configShowParams{}
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 0 {
				return cli.Validation("unexpected arguments %q", args)
			}
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(cfg.Effective()); done {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cli.Stdout.Write(data)
			return err
		},
	}
}
