// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/displayvideo/lib/operation"
)

// ColorMode selects when human output is colored. It implements
// pflag.Value for --color.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (mode *ColorMode) String() string {
	if *mode == "" {
		return string(ColorAuto)
	}
	return string(*mode)
}

func (mode *ColorMode) Set(value string) error {
	switch ColorMode(value) {
	case ColorAuto, ColorAlways, ColorNever:
		*mode = ColorMode(value)
		return nil
	}
	return fmt.Errorf("must be auto, always or never")
}

func (mode *ColorMode) Type() string { return "mode" }

// Styles renders status words for human output.
type Styles struct {
	succeeded lipgloss.Style
	failed    lipgloss.Style
	pending   lipgloss.Style
	label     lipgloss.Style
}

// NewStyles returns styles for w. In auto mode the color support of w
// decides, so pipes and buffers get plain text. Always forces a
// 256-color profile; never forces plain text.
func NewStyles(w io.Writer, mode ColorMode) *Styles {
	var renderer *lipgloss.Renderer
	switch mode {
	case ColorAlways:
		// SetColorProfile is required: the renderer re-detects from the
		// environment unless a profile is set explicitly.
		renderer = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
		renderer.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		renderer = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
		renderer.SetColorProfile(termenv.Ascii)
	default:
		renderer = lipgloss.NewRenderer(w)
	}
	return &Styles{
		succeeded: renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failed:    renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		pending:   renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		label:     renderer.NewStyle().Faint(true),
	}
}

// Outcome renders the outcome name in its status color.
func (s *Styles) Outcome(outcome operation.Outcome) string {
	switch outcome {
	case operation.OutcomeSucceeded:
		return s.succeeded.Render(outcome.String())
	case operation.OutcomeFailed:
		return s.failed.Render(outcome.String())
	default:
		return s.pending.Render(outcome.String())
	}
}

// Label renders a field label.
func (s *Styles) Label(text string) string {
	return s.label.Render(text)
}
