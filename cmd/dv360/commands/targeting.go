// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/displayvideo/cmd/dv360/cli"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
)

func targetingCommand() *cli.Command {
	return &cli.Command{
		Name:    "targeting",
		Summary: "Browse targeting options",
		Subcommands: []*cli.Command{
			targetingAssignedCommand(),
			targetingOptionsCommand(),
		},
	}
}

// --- assigned ---

type assignedParams struct {
	cli.Globals
	cli.JSONOutput
	Filter   string `flag:"filter" desc:"list filter expression ('' for all, including inherited)"`
	PageSize int    `flag:"page-size" desc:"results per request (server default when 0)"`
}

func targetingAssignedCommand() *cli.Command {
	var params assignedParams

	return &cli.Command{
		Name:    "assigned",
		Summary: "List targeting assigned to a line item",
		Usage:   "dv360 targeting assigned <advertiser-id> <line-item-id> [flags]",
		Description: `List the targeting options assigned to a line item, across every
targeting type. By default only options set directly on the line item
are shown (` + displayvideo.DefaultAssignedTargetingFilter + `).`,
		Flags: func() *pflag.FlagSet {
			params = assignedParams{}
			flagSet := cli.FlagsFromParams("assigned", &params)
			flagSet.Lookup("filter").DefValue = displayvideo.DefaultAssignedTargetingFilter
			params.Filter = displayvideo.DefaultAssignedTargetingFilter
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("advertiser and line item IDs required\n\nUsage: dv360 targeting assigned <advertiser-id> <line-item-id>")
			}
			advertiserID, err := parseIDArg("advertiser ID", args[0])
			if err != nil {
				return err
			}
			lineItemID, err := parseIDArg("line item ID", args[1])
			if err != nil {
				return err
			}

			environment, err := params.Environment(logger)
			if err != nil {
				return err
			}
			client, err := environment.Client()
			if err != nil {
				return err
			}
			iterator, err := client.ListLineItemAssignedTargetingOptions(advertiserID, lineItemID, params.Filter, params.PageSize)
			if err != nil {
				return err
			}
			options, err := iterator.Collect(ctx)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(options); done {
				return err
			}

			if len(options) == 0 {
				fmt.Fprintln(cli.Stdout, "No assigned targeting options.")
				return nil
			}
			writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tTYPE\tINHERITANCE\tNAME")
			for _, option := range options {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					option.AssignedTargetingOptionID, option.TargetingType, option.Inheritance, option.DisplayName())
			}
			return writer.Flush()
		},
	}
}

// --- options ---

type optionsParams struct {
	cli.Globals
	cli.JSONOutput
	Type     string `flag:"type" desc:"targeting type" default:"TARGETING_TYPE_BROWSER"`
	PageSize int    `flag:"page-size" desc:"results per request (server default when 0)"`
}

func targetingOptionsCommand() *cli.Command {
	var params optionsParams

	return &cli.Command{
		Name:    "options",
		Summary: "List the options of a targeting type available to an advertiser",
		Usage:   "dv360 targeting options <advertiser-id> [--type TARGETING_TYPE_...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Browsers an advertiser can target",
				Command:     "dv360 targeting options 4309 --type " + displayvideo.TargetingTypeBrowser,
			},
		},
		Flags: func() *pflag.FlagSet {
			params = optionsParams{}
			return cli.FlagsFromParams("options", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("advertiser ID required\n\nUsage: dv360 targeting options <advertiser-id>")
			}
			advertiserID, err := parseIDArg("advertiser ID", args[0])
			if err != nil {
				return err
			}

			environment, err := params.Environment(logger)
			if err != nil {
				return err
			}
			client, err := environment.Client()
			if err != nil {
				return err
			}
			iterator, err := client.ListTargetingOptions(advertiserID, params.Type, params.PageSize)
			if err != nil {
				return err
			}
			options, err := iterator.Collect(ctx)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(options); done {
				return err
			}

			if len(options) == 0 {
				fmt.Fprintln(cli.Stdout, "No targeting options.")
				return nil
			}
			writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME")
			for _, option := range options {
				fmt.Fprintf(writer, "%s\t%s\n", option.TargetingOptionID, option.DisplayName())
			}
			return writer.Flush()
		},
	}
}
