// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/displayvideo/lib/backoff"
	"github.com/bureau-foundation/displayvideo/lib/compress"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
)

// PathEnvironmentVariable names the config file when --config is not
// given.
const PathEnvironmentVariable = "DV360_CONFIG"

// DefaultTokenEnvironmentVariable holds the OAuth access token unless
// api.token_env says otherwise.
const DefaultTokenEnvironmentVariable = "DV360_ACCESS_TOKEN"

// Environment selects which override section applies.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the complete tool configuration.
type Config struct {
	Environment Environment   `yaml:"environment" json:"environment"`
	API         APIConfig     `yaml:"api" json:"api"`
	Polling     PollingConfig `yaml:"polling" json:"polling"`
	Journal     JournalConfig `yaml:"journal" json:"journal"`

	Development *Overrides `yaml:"development,omitempty" json:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// Overrides replaces the fields of the base sections that are
// present in the environment's section. A field written as its zero
// value ("jitter: 0", "path: \"\"") is present and applies.
type Overrides struct {
	API     *APIOverrides     `yaml:"api,omitempty" json:"api,omitempty"`
	Polling *PollingOverrides `yaml:"polling,omitempty" json:"polling,omitempty"`
	Journal *JournalOverrides `yaml:"journal,omitempty" json:"journal,omitempty"`
}

// APIOverrides mirrors APIConfig; nil fields keep the base value.
type APIOverrides struct {
	BaseURL        *string   `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Version        *string   `yaml:"version,omitempty" json:"version,omitempty"`
	TokenEnv       *string   `yaml:"token_env,omitempty" json:"token_env,omitempty"`
	MaxAttempts    *int      `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	RequestTimeout *Duration `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`
}

// PollingOverrides mirrors PollingConfig; nil fields keep the base
// value.
type PollingOverrides struct {
	InitialInterval *Duration `yaml:"initial_interval,omitempty" json:"initial_interval,omitempty"`
	MaxInterval     *Duration `yaml:"max_interval,omitempty" json:"max_interval,omitempty"`
	MaxElapsedTime  *Duration `yaml:"max_elapsed_time,omitempty" json:"max_elapsed_time,omitempty"`
	Multiplier      *float64  `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	Jitter          *float64  `yaml:"jitter,omitempty" json:"jitter,omitempty"`
}

// JournalOverrides mirrors JournalConfig; nil fields keep the base
// value.
type JournalOverrides struct {
	Path        *string `yaml:"path,omitempty" json:"path,omitempty"`
	Compression *string `yaml:"compression,omitempty" json:"compression,omitempty"`
}

// APIConfig configures the REST client.
type APIConfig struct {
	// BaseURL is the API root. Must be HTTPS.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Version is one of v1, v2, v3, v4.
	Version string `yaml:"version" json:"version"`

	// TokenEnv names the environment variable holding the access
	// token.
	TokenEnv string `yaml:"token_env" json:"token_env"`

	// MaxAttempts bounds sends per request, retries included.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`

	// RequestTimeout bounds one HTTP exchange. Zero means no bound.
	RequestTimeout Duration `yaml:"request_timeout" json:"request_timeout"`
}

// PollingConfig is the wait schedule for long-running operations.
type PollingConfig struct {
	InitialInterval Duration `yaml:"initial_interval" json:"initial_interval"`
	MaxInterval     Duration `yaml:"max_interval" json:"max_interval"`
	MaxElapsedTime  Duration `yaml:"max_elapsed_time" json:"max_elapsed_time"`
	Multiplier      float64  `yaml:"multiplier" json:"multiplier"`
	Jitter          float64  `yaml:"jitter" json:"jitter"`
}

// JournalConfig locates the operation journal.
type JournalConfig struct {
	// Path is the SQLite file. Empty disables the journal.
	Path string `yaml:"path" json:"path"`

	// Compression is none, lz4 or zstd.
	Compression string `yaml:"compression" json:"compression"`
}

// Duration is a time.Duration written in YAML as a duration string.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string like \"30s\"", node.Line)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	policy := backoff.DefaultPolicy()
	return &Config{
		Environment: Development,
		API: APIConfig{
			BaseURL:     displayvideo.DefaultBaseURL,
			Version:     displayvideo.DefaultVersion,
			TokenEnv:    DefaultTokenEnvironmentVariable,
			MaxAttempts: displayvideo.DefaultMaxAttempts,
		},
		Polling: PollingConfig{
			InitialInterval: Duration(policy.InitialInterval),
			MaxInterval:     Duration(policy.MaxInterval),
			MaxElapsedTime:  Duration(policy.MaxElapsedTime),
			Multiplier:      policy.Multiplier,
			Jitter:          policy.Jitter,
		},
		Journal: JournalConfig{
			Path:        "${XDG_STATE_HOME:-${HOME}/.local/state}/dv360/journal.db",
			Compression: "zstd",
		},
	}
}

// Load loads path, or the file named by DV360_CONFIG when path is
// empty. With neither, it returns Default(). The result is expanded
// and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(PathEnvironmentVariable)
	}
	if path == "" {
		config := Default()
		config.finish()
		return config, config.Validate()
	}
	return LoadFile(path)
}

// LoadFile loads a specific file over Default().
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML over Default(), applies overrides and variable
// expansion, and validates the result.
func Parse(data []byte) (*Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	config.finish()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) finish() {
	c.applyEnvironmentOverrides()
	c.Journal.Path = expandVars(c.Journal.Path)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if api := overrides.API; api != nil {
		override(&c.API.BaseURL, api.BaseURL)
		override(&c.API.Version, api.Version)
		override(&c.API.TokenEnv, api.TokenEnv)
		override(&c.API.MaxAttempts, api.MaxAttempts)
		override(&c.API.RequestTimeout, api.RequestTimeout)
	}
	if polling := overrides.Polling; polling != nil {
		override(&c.Polling.InitialInterval, polling.InitialInterval)
		override(&c.Polling.MaxInterval, polling.MaxInterval)
		override(&c.Polling.MaxElapsedTime, polling.MaxElapsedTime)
		override(&c.Polling.Multiplier, polling.Multiplier)
		override(&c.Polling.Jitter, polling.Jitter)
	}
	if journal := overrides.Journal; journal != nil {
		override(&c.Journal.Path, journal.Path)
		override(&c.Journal.Compression, journal.Compression)
	}
}

func override[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\$\{[^}]*\})*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}. Defaults may
// themselves contain ${VAR}.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return expandVars(parts[2])
	})
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("environment must be development or production (got %q)", c.Environment))
	}
	if !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("api.base_url must use https (got %q)", c.API.BaseURL))
	}
	if !slices.Contains(displayvideo.SupportedVersions, c.API.Version) {
		errs = append(errs, fmt.Errorf("api.version must be one of %v (got %q)", displayvideo.SupportedVersions, c.API.Version))
	}
	if c.API.TokenEnv == "" {
		errs = append(errs, fmt.Errorf("api.token_env is required"))
	}
	if c.API.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("api.max_attempts must be at least 1 (got %d)", c.API.MaxAttempts))
	}
	if c.API.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("api.request_timeout must not be negative"))
	}
	if err := c.PollingPolicy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("polling: %w", err))
	}
	if _, err := compress.ParseTag(c.Journal.Compression); err != nil {
		errs = append(errs, fmt.Errorf("journal.compression: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// PollingPolicy converts the polling section to a backoff policy.
func (c *Config) PollingPolicy() backoff.Policy {
	return backoff.Policy{
		InitialInterval: time.Duration(c.Polling.InitialInterval),
		MaxInterval:     time.Duration(c.Polling.MaxInterval),
		MaxElapsedTime:  time.Duration(c.Polling.MaxElapsedTime),
		Multiplier:      c.Polling.Multiplier,
		Jitter:          c.Polling.Jitter,
	}
}

// JournalCompression returns the parsed journal compression.
func (c *Config) JournalCompression() compress.Tag {
	tag, _ := compress.ParseTag(c.Journal.Compression)
	return tag
}

// Token reads the access token from the configured environment
// variable.
func (c *Config) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(c.API.TokenEnv))
	if token == "" {
		return "", fmt.Errorf("config: access token not set; export %s", c.API.TokenEnv)
	}
	return token, nil
}

// Effective returns a copy without the override sections, which are
// already applied.
func (c *Config) Effective() *Config {
	effective := *c
	effective.Development = nil
	effective.Production = nil
	return &effective
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c.Effective())
}
