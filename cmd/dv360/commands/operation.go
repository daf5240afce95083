// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/displayvideo/cmd/dv360/cli"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
	"github.com/bureau-foundation/displayvideo/lib/journal"
	"github.com/bureau-foundation/displayvideo/lib/sdf"
)

func operationCommand() *cli.Command {
	return &cli.Command{
		Name:    "operation",
		Summary: "Inspect and wait on long-running operations",
		Subcommands: []*cli.Command{
			operationGetCommand(),
			operationWaitCommand(),
			operationListCommand(),
		},
	}
}

// --- get ---

type getParams struct {
	cli.Globals
	cli.JSONOutput
}

func operationGetCommand() *cli.Command {
	var params getParams

	return &cli.Command{
		Name:    "get",
		Summary: "Fetch the current state of an operation",
		Usage:   "dv360 operation get <name> [flags]",
		Flags: func() *pflag.FlagSet {
			params = getParams{}
			return cli.FlagsFromParams("get", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one operation name required\n\nUsage: dv360 operation get <name>")
			}
			environment, err := params.Environment(logger)
			if err != nil {
				return err
			}
			client, err := environment.Client()
			if err != nil {
				return err
			}

			op, err := client.GetOperation(ctx, args[0])
			if displayvideo.IsNotFound(err) {
				return fmt.Errorf("operation %q not found: %w", args[0], err)
			}
			if err != nil {
				return err
			}

			j, err := environment.OpenJournal()
			if err != nil {
				return err
			}
			if j != nil {
				j.Observer(ctx, journal.KindObserved)(op)
				j.Close()
			}

			if done, err := params.EmitJSON(op); done {
				return err
			}
			styles := params.Styles(cli.Stdout)
			writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Operation:"), op.Name)
			fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Outcome:"), styles.Outcome(op.Outcome()))
			if op.Error != nil {
				fmt.Fprintf(writer, "%s\t%d\n", styles.Label("Error code:"), op.Error.Code)
				fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Error message:"), op.Error.Message)
			}
			if resourceName, err := op.ResourceName(); err == nil {
				fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Resource:"), resourceName)
			}
			return writer.Flush()
		},
	}
}

// --- wait ---

type waitParams struct {
	cli.Globals
	cli.JSONOutput
	Output string `flag:"output,o" desc:"save the generated archive here when the operation succeeds"`
}

func operationWaitCommand() *cli.Command {
	var params waitParams

	return &cli.Command{
		Name:    "wait",
		Summary: "Resume polling an operation until it finishes",
		Usage:   "dv360 operation wait <name> [flags]",
		Description: `Poll an existing operation with a fresh backoff schedule.

Use it to pick up a task that "dv360 sdf download" gave up on. Exit
status is the same as for "sdf download": 0 succeeded, 1 failed,
2 still running at the polling limit.`,
		Examples: []cli.Example{
			{
				Description: "Resume and save the archive",
				Command:     "dv360 operation wait sdfdownloadtasks/operations/123 -o sdf.zip",
			},
		},
		Flags: func() *pflag.FlagSet {
			params = waitParams{}
			return cli.FlagsFromParams("wait", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one operation name required\n\nUsage: dv360 operation wait <name>")
			}
			environment, err := params.Environment(logger)
			if err != nil {
				return err
			}
			client, err := environment.Client()
			if err != nil {
				return err
			}
			j, err := environment.OpenJournal()
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}

			observe := observer(ctx, j, journal.KindObserved)
			poller, err := environment.Poller(client, observe)
			if err != nil {
				return err
			}
			runner := &sdf.Runner{Service: client, Poller: poller, Logger: logger, Started: observe}

			result, err := runner.Resume(ctx, args[0], params.Output)
			return finishWait(result, err, &params.JSONOutput, &params.Globals)
		},
	}
}

// --- list ---

type listParams struct {
	cli.Globals
	cli.JSONOutput
	Pending bool `flag:"pending" desc:"only operations not yet done"`
	Limit   int  `flag:"limit" desc:"maximum number of operations" default:"50"`
}

func operationListCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List operations recorded in the local journal",
		Usage:   "dv360 operation list [flags]",
		Description: `List operations this tool has created or observed, most recent first.

The journal is a local SQLite file (journal.path in the configuration).
It holds the last state seen for each operation, which may be stale.`,
		Flags: func() *pflag.FlagSet {
			params = listParams{}
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return cli.Validation("unexpected arguments %q", args)
			}
			if params.Limit < 1 {
				return cli.Validation("--limit must be at least 1")
			}
			environment, err := params.Environment(logger)
			if err != nil {
				return err
			}
			j, err := environment.RequireJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.List(ctx, journal.ListOptions{PendingOnly: params.Pending, Limit: params.Limit})
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(entries); done {
				return err
			}

			styles := params.Styles(cli.Stdout)
			writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "OPERATION\tKIND\tOUTCOME\tCHECKS\tLAST SEEN")
			for _, entry := range entries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
					entry.Name, entry.Kind, styles.Outcome(entry.Outcome),
					entry.Observations, entry.LastSeen.Local().Format(time.DateTime))
			}
			return writer.Flush()
		},
	}
}
