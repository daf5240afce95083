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

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Summary: "Browse Display & Video 360 users",
		Subcommands: []*cli.Command{
			usersListCommand(),
		},
	}
}

type usersListParams struct {
	cli.Globals
	cli.JSONOutput
	Email             string     `flag:"email" desc:"email contains"`
	DisplayName       string     `flag:"display-name" desc:"display name contains"`
	Role              string     `flag:"role" desc:"holds this user role, e.g. STANDARD"`
	HasPartnerRole    bool       `flag:"partner-roles" desc:"has at least one partner role"`
	HasAdvertiserRole bool       `flag:"advertiser-roles" desc:"has at least one advertiser role"`
	PartnerID         optionalID `flag:"partner-id" desc:"has a role on this partner"`
	AdvertiserID      optionalID `flag:"advertiser-id" desc:"has a role on this advertiser"`
	ParentPartnerID   optionalID `flag:"parent-partner-id" desc:"has a role on an advertiser of this partner"`
	PageSize          int        `flag:"page-size" desc:"results per request (server default when 0)"`
}

func (params *usersListParams) filter() displayvideo.UserFilter {
	return displayvideo.UserFilter{
		EmailContains:       params.Email,
		DisplayNameContains: params.DisplayName,
		UserRole:            params.Role,
		HasPartnerRole:      params.HasPartnerRole,
		HasAdvertiserRole:   params.HasAdvertiserRole,
		PartnerID:           displayvideo.ID(params.PartnerID),
		AdvertiserID:        displayvideo.ID(params.AdvertiserID),
		ParentPartnerID:     displayvideo.ID(params.ParentPartnerID),
	}
}

func usersListCommand() *cli.Command {
	var params usersListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List users and their role assignments",
		Usage:   "dv360 users list [filters] [flags]",
		Description: `List users visible to the caller, following every result page.

Filters combine with AND.`,
		Examples: []cli.Example{
			{
				Description: "Standard users with access to one advertiser",
				Command:     "dv360 users list --role STANDARD --advertiser-id 4309",
			},
		},
		Flags: func() *pflag.FlagSet {
			params = usersListParams{}
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return cli.Validation("unexpected arguments %q", args)
			}
			if params.PageSize < 0 {
				return cli.Validation("--page-size must not be negative")
			}
			environment, err := params.Environment(logger)
			if err != nil {
				return err
			}
			client, err := environment.Client()
			if err != nil {
				return err
			}

			filter := params.filter()
			logger.Debug("listing users", "filter", filter.String())
			users, err := client.ListUsers(filter, params.PageSize).Collect(ctx)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(users); done {
				return err
			}

			if len(users) == 0 {
				fmt.Fprintln(cli.Stdout, "No users found.")
				return nil
			}
			writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "USER ID\tEMAIL\tDISPLAY NAME\tROLE\tENTITY")
			for _, user := range users {
				if len(user.AssignedUserRoles) == 0 {
					fmt.Fprintf(writer, "%s\t%s\t%s\t-\t-\n", user.UserID, user.Email, user.DisplayName)
					continue
				}
				for i, role := range user.AssignedUserRoles {
					if i == 0 {
						fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
							user.UserID, user.Email, user.DisplayName, role.UserRole, role.Entity())
					} else {
						fmt.Fprintf(writer, "\t\t\t%s\t%s\n", role.UserRole, role.Entity())
					}
				}
			}
			return writer.Flush()
		},
	}
}
