// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML configuration of the dv360 tool.
//
// Configuration comes from one file, named by the --config flag or the
// DV360_CONFIG environment variable. There is no search path. With
// neither set, [Default] applies: the public API endpoint, version v4,
// and the polling schedule of 5s initial wait, 5m cap, 5h budget.
//
// The file may carry development and production sections that
// override base values when [Config].Environment matches. After
// loading, ${HOME} and ${VAR:-default} patterns in path fields are
// expanded. The access token itself never lives in the file; the api
// section names the environment variable that holds it.
//
// Durations are written as Go duration strings ("5s", "1h30m").
package config
