// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bureau-foundation/displayvideo/lib/config"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
	"github.com/bureau-foundation/displayvideo/lib/journal"
	"github.com/bureau-foundation/displayvideo/lib/operation"
)

// NewHTTPClient builds the HTTP client for API calls. Tests replace it
// to trust an httptest TLS server.
var NewHTTPClient = func(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Environment is what a command needs to reach the API: the loaded
// configuration and the invocation's logger.
type Environment struct {
	Config *config.Config
	Logger *slog.Logger
}

// Environment loads the configuration named by --config.
func (g *Globals) Environment(logger *slog.Logger) (*Environment, error) {
	cfg, err := g.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		"environment", cfg.Environment,
		"api_version", cfg.API.Version,
		"journal", cfg.Journal.Path,
	)
	return &Environment{Config: cfg, Logger: logger}, nil
}

// Client creates an API client authenticated with the configured
// access token.
func (e *Environment) Client() (*displayvideo.Client, error) {
	token, err := e.Config.Token()
	if err != nil {
		return nil, err
	}
	return displayvideo.NewClient(displayvideo.Config{
		BaseURL:     e.Config.API.BaseURL,
		Version:     e.Config.API.Version,
		Token:       token,
		HTTPClient:  NewHTTPClient(time.Duration(e.Config.API.RequestTimeout)),
		Logger:      e.Logger,
		MaxAttempts: e.Config.API.MaxAttempts,
	})
}

// Poller creates a poller on the configured schedule. observe may be
// nil.
func (e *Environment) Poller(fetcher operation.Fetcher, observe func(*operation.Operation)) (*operation.Poller, error) {
	return operation.NewPoller(operation.PollerConfig{
		Fetcher: fetcher,
		Policy:  e.Config.PollingPolicy(),
		Logger:  e.Logger,
		Observe: observe,
	})
}

// OpenJournal opens the configured journal, creating its directory.
// Returns nil and no error when the journal is disabled.
func (e *Environment) OpenJournal() (*journal.Journal, error) {
	path := e.Config.Journal.Path
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return journal.Open(journal.Config{
		Path:        path,
		Compression: e.Config.JournalCompression(),
		Logger:      e.Logger,
	})
}

// RequireJournal is OpenJournal for commands that cannot run without
// one.
func (e *Environment) RequireJournal() (*journal.Journal, error) {
	j, err := e.OpenJournal()
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, Validation("the operation journal is disabled (journal.path is empty)")
	}
	return j, nil
}
