// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/displayvideo/lib/config"
)

const verboseFlag = "verbose"

// Globals are the flags every leaf command accepts. Embed it in a
// params struct; [BindFlags] registers it through AddFlags.
type Globals struct {
	ConfigPath string
	Verbose    bool
	Color      ColorMode
}

// AddFlags registers --config, --verbose and --color.
func (g *Globals) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.ConfigPath, "config", "",
		"configuration file (default $"+config.PathEnvironmentVariable+", else built-in defaults)")
	flagSet.BoolVarP(&g.Verbose, verboseFlag, "v", false, "log every status check and HTTP retry")
	flagSet.Var(&g.Color, "color", "color human output: auto, always or never")
}

// LoadConfig loads the configuration named by --config.
func (g *Globals) LoadConfig() (*config.Config, error) {
	return config.Load(g.ConfigPath)
}

// Styles returns output styles for w under --color.
func (g *Globals) Styles(w io.Writer) *Styles {
	return NewStyles(w, g.Color)
}
