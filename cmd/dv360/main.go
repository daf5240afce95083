// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/displayvideo/cmd/dv360/commands"
	"github.com/bureau-foundation/displayvideo/lib/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		// Commands that print their own outcome (sdf download, operation
		// wait) return an ExitError with the desired code.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			process.Exit(os.Stderr, nil, coder.ExitCode())
		}
		process.Fatal(err)
	}
}
