// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
	"github.com/bureau-foundation/displayvideo/lib/operation"
)

// Service is the part of the API the workflow needs.
// *displayvideo.Client implements it.
type Service interface {
	CreateSdfDownloadTask(ctx context.Context, request displayvideo.CreateSdfDownloadTaskRequest) (*operation.Operation, error)
	operation.Fetcher
	MediaDownloader
}

// Runner drives SDF download tasks to completion.
type Runner struct {
	Service Service
	Poller  *operation.Poller

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Started, when set, receives the operation polling starts from:
	// the one returned by task creation in Run, or the first status
	// check in Resume.
	Started func(*operation.Operation)
}

// Result is the final state of one workflow run.
type Result struct {
	Operation *operation.Operation `json:"operation"`
	Outcome   operation.Outcome    `json:"outcome"`

	// ResourceName locates the generated archive. Set on success.
	ResourceName string `json:"resource_name,omitempty"`

	// File is the saved archive. Set on success when an output path
	// was given.
	File *File `json:"file,omitempty"`
}

// Err returns the remote failure of a failed run as an
// *operation.StatusError, or nil.
func (result *Result) Err() error {
	if result.Outcome != operation.OutcomeFailed {
		return nil
	}
	return result.Operation.Error.Err(result.Operation.Name)
}

// Run creates a download task for request, waits for it, and saves the
// archive to outputPath when it succeeds. An empty outputPath skips the
// download.
//
// A remote failure or a soft timeout is reported through the Result,
// not as an error. Errors are reserved for the workflow itself: an
// invalid request, a failed API call, a failed download, or
// cancellation.
func (runner *Runner) Run(ctx context.Context, request displayvideo.CreateSdfDownloadTaskRequest, outputPath string) (*Result, error) {
	created, err := runner.Service.CreateSdfDownloadTask(ctx, request)
	if err != nil {
		return nil, err
	}
	runner.started(created)
	return runner.finish(ctx, created, outputPath)
}

// Resume continues waiting on an operation created earlier, by name.
// The operation is checked once before polling, so one that already
// finished is reported without waiting.
func (runner *Runner) Resume(ctx context.Context, name, outputPath string) (*Result, error) {
	if name == "" {
		return nil, errors.New("sdf: resume requires an operation name")
	}
	current, err := runner.Service.GetOperation(ctx, name)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("sdf: status check for %s returned no operation", name)
	}
	runner.started(current)
	return runner.finish(ctx, current, outputPath)
}

func (runner *Runner) started(op *operation.Operation) {
	if runner.Started != nil {
		runner.Started(op)
	}
}

func (runner *Runner) finish(ctx context.Context, op *operation.Operation, outputPath string) (*Result, error) {
	logger := runner.logger().With("operation", op.Name)

	final, err := runner.Poller.Wait(ctx, op)
	if err != nil {
		if final != nil {
			// Cancelled mid-wait: keep the last observed state so the
			// caller can report the name to resume with.
			return &Result{Operation: final, Outcome: final.Outcome()}, err
		}
		return nil, err
	}

	result := &Result{Operation: final, Outcome: final.Outcome()}
	switch result.Outcome {
	case operation.OutcomePending:
		logger.Warn("SDF download task still running at the polling limit")
		return result, nil
	case operation.OutcomeFailed:
		logger.Error("SDF download task failed",
			"code", final.Error.Code,
			"message", final.Error.Message,
		)
		return result, nil
	}

	resourceName, err := final.ResourceName()
	if err != nil {
		return nil, fmt.Errorf("sdf: %w", err)
	}
	result.ResourceName = resourceName
	logger.Info("SDF download task succeeded", "resource_name", resourceName)

	if outputPath == "" {
		return result, nil
	}
	file, err := Save(ctx, runner.Service, resourceName, outputPath)
	if err != nil {
		return nil, err
	}
	result.File = file
	logger.Info("SDF archive saved",
		"path", file.Path,
		"bytes", file.Size,
		"blake3", file.Digest,
	)
	return result, nil
}

func (runner *Runner) logger() *slog.Logger {
	if runner.Logger != nil {
		return runner.Logger
	}
	return slog.Default()
}
