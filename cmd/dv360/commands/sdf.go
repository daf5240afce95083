// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/displayvideo/cmd/dv360/cli"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
	"github.com/bureau-foundation/displayvideo/lib/journal"
	"github.com/bureau-foundation/displayvideo/lib/operation"
	"github.com/bureau-foundation/displayvideo/lib/sdf"
)

// Exit codes of the commands that wait on an operation.
const (
	exitFailed  = 1
	exitPending = 2
)

func sdfCommand() *cli.Command {
	return &cli.Command{
		Name:    "sdf",
		Summary: "Generate, download, and inspect structured data files",
		Subcommands: []*cli.Command{
			sdfDownloadCommand(),
			sdfInspectCommand(),
		},
	}
}

// --- download ---

type downloadParams struct {
	cli.Globals
	cli.JSONOutput
	PartnerID    optionalID `flag:"partner-id" desc:"partner that owns the entities (exclusive with --advertiser-id)"`
	AdvertiserID optionalID `flag:"advertiser-id" desc:"advertiser that owns the entities (exclusive with --partner-id)"`
	Version      string     `flag:"version" desc:"SDF version, e.g. SDF_VERSION_7_1"`
	FileTypes    []string   `flag:"file-types" desc:"comma-separated file types, e.g. FILE_TYPE_CAMPAIGN,FILE_TYPE_LINE_ITEM"`
	FilterType   string     `flag:"filter-type" desc:"parent entity filter type, e.g. FILTER_TYPE_ADVERTISER_ID"`
	FilterIDs    idList     `flag:"filter-ids" desc:"comma-separated IDs for the filter type"`
	Request      string     `flag:"request" desc:"JSONC file holding the whole task request (replaces the request flags)"`
	Output       string     `flag:"output,o" desc:"where to save the downloaded archive"`
}

// request assembles the task request from --request or the individual
// flags.
func (params *downloadParams) request(flagSet *pflag.FlagSet) (*displayvideo.CreateSdfDownloadTaskRequest, error) {
	if params.Request != "" {
		for _, name := range []string{"partner-id", "advertiser-id", "version", "file-types", "filter-type", "filter-ids"} {
			if flagSet.Changed(name) {
				return nil, cli.Validation("--%s cannot be combined with --request", name)
			}
		}
		return sdf.ReadRequest(params.Request)
	}

	request := &displayvideo.CreateSdfDownloadTaskRequest{
		Version:      params.Version,
		PartnerID:    displayvideo.ID(params.PartnerID),
		AdvertiserID: displayvideo.ID(params.AdvertiserID),
		ParentEntityFilter: &displayvideo.ParentEntityFilter{
			FileType:   params.FileTypes,
			FilterType: params.FilterType,
			FilterIDs:  params.FilterIDs,
		},
	}
	if err := request.Validate(); err != nil {
		return nil, cli.Validation("%w", err)
	}
	return request, nil
}

func sdfDownloadCommand() *cli.Command {
	var params downloadParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "download",
		Summary: "Create an SDF download task, wait for it, and save the archive",
		Usage:   "dv360 sdf download --output PATH [request flags | --request FILE] [flags]",
		Description: `Create a structured data file download task and follow it to the end.

The task is polled with exponential backoff (5s initial wait, 5m cap,
5h budget by default; see the polling section of the configuration).
When it succeeds the archive is downloaded to --output.

Exit status:
  0  the task succeeded (and the archive was saved)
  1  the task finished in error; its code and message are printed
  2  polling gave up while the task was still running; resume with
     "dv360 operation wait NAME"`,
		Examples: []cli.Example{
			{
				Description: "Campaigns and line items of one advertiser",
				Command: "dv360 sdf download --advertiser-id 4309 --version SDF_VERSION_7_1 " +
					"--file-types FILE_TYPE_CAMPAIGN,FILE_TYPE_LINE_ITEM " +
					"--filter-type FILTER_TYPE_ADVERTISER_ID --filter-ids 4309 -o sdf.zip",
			},
			{
				Description: "A request kept in a file",
				Command:     "dv360 sdf download --request nightly.jsonc -o nightly.zip",
			},
		},
		Flags: func() *pflag.FlagSet {
			params = downloadParams{}
			flagSet = cli.FlagsFromParams("download", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return cli.Validation("unexpected arguments %q", args)
			}
			if params.Output == "" {
				return cli.Validation("--output is required")
			}
			request, err := params.request(flagSet)
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
			j, err := environment.OpenJournal()
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}

			poller, err := environment.Poller(client, observer(ctx, j, journal.KindSdfDownload))
			if err != nil {
				return err
			}
			runner := &sdf.Runner{
				Service: client,
				Poller:  poller,
				Logger:  logger,
				Started: observer(ctx, j, journal.KindSdfDownload),
			}

			result, err := runner.Run(ctx, *request, params.Output)
			return finishWait(result, err, &params.JSONOutput, &params.Globals)
		},
	}
}

// observer returns the journal's Observe hook, or nil when the
// journal is disabled.
func observer(ctx context.Context, j *journal.Journal, kind journal.Kind) func(*operation.Operation) {
	if j == nil {
		return nil
	}
	return j.Observer(ctx, kind)
}

// finishWait reports the result of a create-or-resume workflow and
// maps its outcome to the exit status.
func finishWait(result *sdf.Result, err error, output *cli.JSONOutput, globals *cli.Globals) error {
	if err != nil {
		if result != nil && errors.Is(err, context.Canceled) {
			fmt.Fprintf(cli.Stdout, "interrupted; resume with: dv360 operation wait %s\n", result.Operation.Name)
		}
		return err
	}

	if done, err := output.EmitJSON(result); done {
		if err != nil {
			return err
		}
	} else {
		printResult(globals.Styles(cli.Stdout), cli.Stdout, result)
	}

	switch result.Outcome {
	case operation.OutcomeFailed:
		return &cli.ExitError{Code: exitFailed}
	case operation.OutcomePending:
		return &cli.ExitError{Code: exitPending}
	}
	return nil
}

func printResult(styles *cli.Styles, w io.Writer, result *sdf.Result) {
	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Operation:"), result.Operation.Name)
	fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Outcome:"), styles.Outcome(result.Outcome))

	switch result.Outcome {
	case operation.OutcomeFailed:
		status := result.Operation.Error
		fmt.Fprintf(writer, "%s\t%d\n", styles.Label("Error code:"), status.Code)
		fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Error message:"), status.Message)
	case operation.OutcomePending:
		fmt.Fprintf(writer, "%s\tdv360 operation wait %s\n", styles.Label("Resume with:"), result.Operation.Name)
	case operation.OutcomeSucceeded:
		fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Resource:"), result.ResourceName)
		if result.File != nil {
			fmt.Fprintf(writer, "%s\t%s\n", styles.Label("Saved to:"), result.File.Path)
			fmt.Fprintf(writer, "%s\t%d bytes\n", styles.Label("Size:"), result.File.Size)
			fmt.Fprintf(writer, "%s\t%s\n", styles.Label("BLAKE3:"), result.File.Digest)
		}
	}
	writer.Flush()
}

// --- inspect ---

type inspectParams struct {
	cli.Globals
	cli.JSONOutput
}

func sdfInspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "List the files inside a downloaded SDF archive",
		Usage:   "dv360 sdf inspect <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			params = inspectParams{}
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one archive path required\n\nUsage: dv360 sdf inspect <archive>")
			}
			entries, err := sdf.Inspect(args[0])
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(entries); done {
				return err
			}

			writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "FILE\tBYTES\tROWS")
			for _, entry := range entries {
				rows := "-"
				if entry.Rows >= 0 {
					rows = fmt.Sprint(entry.Rows)
				}
				fmt.Fprintf(writer, "%s\t%d\t%s\n", entry.Name, entry.Size, rows)
			}
			return writer.Flush()
		},
	}
}
