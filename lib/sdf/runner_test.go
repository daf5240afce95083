// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/displayvideo/lib/backoff"
	"github.com/bureau-foundation/displayvideo/lib/clock"
	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
	"github.com/bureau-foundation/displayvideo/lib/operation"
	"github.com/bureau-foundation/displayvideo/lib/testutil"
)

const taskName = "sdfdownloadtasks/operations/42"

var testRequest = displayvideo.CreateSdfDownloadTaskRequest{
	Version:   "SDF_VERSION_7_1",
	PartnerID: 1,
	ParentEntityFilter: &displayvideo.ParentEntityFilter{
		FileType:   []string{"FILE_TYPE_CAMPAIGN"},
		FilterType: displayvideo.FilterTypeNone,
	},
}

// fakeService creates one task and then answers status checks from a
// script, repeating the last entry once the script runs out.
type fakeService struct {
	mu        sync.Mutex
	createErr error
	getErr    error
	script    []*operation.Operation
	checks    int
	media     map[string][]byte
}

func (service *fakeService) CreateSdfDownloadTask(_ context.Context, request displayvideo.CreateSdfDownloadTaskRequest) (*operation.Operation, error) {
	if service.createErr != nil {
		return nil, service.createErr
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return &operation.Operation{Name: taskName}, nil
}

func (service *fakeService) GetOperation(_ context.Context, name string) (*operation.Operation, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.getErr != nil {
		return nil, service.getErr
	}
	index := min(service.checks, len(service.script)-1)
	service.checks++
	op := *service.script[index]
	op.Name = name
	return &op, nil
}

func (service *fakeService) DownloadMedia(_ context.Context, resourceName string, w io.Writer) (int64, error) {
	data, ok := service.media[resourceName]
	if !ok {
		return 0, &displayvideo.APIError{StatusCode: 404}
	}
	written, err := w.Write(data)
	return int64(written), err
}

func (service *fakeService) checkCount() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.checks
}

func succeeded(resourceName string) *operation.Operation {
	return &operation.Operation{Done: true, Response: map[string]any{"resourceName": resourceName}}
}

func newTestRunner(t *testing.T, service *fakeService, fakeClock *clock.FakeClock) *Runner {
	t.Helper()
	poller, err := operation.NewPoller(operation.PollerConfig{
		Fetcher: service,
		Policy: backoff.Policy{
			InitialInterval: time.Second,
			MaxInterval:     4 * time.Second,
			MaxElapsedTime:  10 * time.Second,
			Multiplier:      2,
		},
		Clock:  fakeClock,
		Logger: slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	return &Runner{Service: service, Poller: poller, Logger: slog.New(slog.DiscardHandler)}
}

type runResult struct {
	result *Result
	err    error
}

func startRun(runner *Runner, outputPath string) <-chan runResult {
	results := make(chan runResult, 1)
	go func() {
		result, err := runner.Run(context.Background(), testRequest, outputPath)
		results <- runResult{result: result, err: err}
	}()
	return results
}

func fireWaits(fakeClock *clock.FakeClock, count int) {
	for range count {
		fakeClock.WaitForTimers(1)
		fakeClock.AdvanceToNext()
	}
}

func TestRunDownloadsOnSuccess(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{
		script: []*operation.Operation{{}, succeeded("sdfdownloadtasks/media/9")},
		media:  map[string][]byte{"sdfdownloadtasks/media/9": []byte("archive")},
	}
	runner := newTestRunner(t, service, fakeClock)

	var created []string
	runner.Started = func(op *operation.Operation) { created = append(created, op.Name) }

	outputPath := filepath.Join(t.TempDir(), "out.zip")
	results := startRun(runner, outputPath)
	fireWaits(fakeClock, 2)
	run := testutil.RequireReceive(t, results, 5*time.Second, "run result")

	if run.err != nil {
		t.Fatalf("Run: %v", run.err)
	}
	if run.result.Outcome != operation.OutcomeSucceeded {
		t.Fatalf("Outcome = %v, want succeeded", run.result.Outcome)
	}
	if run.result.ResourceName != "sdfdownloadtasks/media/9" {
		t.Errorf("ResourceName = %s", run.result.ResourceName)
	}
	if run.result.File == nil || run.result.File.Size != int64(len("archive")) {
		t.Errorf("unexpected file: %+v", run.result.File)
	}
	if saved, _ := os.ReadFile(outputPath); string(saved) != "archive" {
		t.Errorf("saved content = %q", saved)
	}
	if len(created) != 1 || created[0] != taskName {
		t.Errorf("Started hook calls = %v", created)
	}
	if service.checkCount() != 2 {
		t.Errorf("status checks = %d, want 2", service.checkCount())
	}
}

func TestRunWithoutOutputSkipsDownload(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{script: []*operation.Operation{succeeded("media/absent")}}
	runner := newTestRunner(t, service, fakeClock)

	results := startRun(runner, "")
	fireWaits(fakeClock, 1)
	run := testutil.RequireReceive(t, results, 5*time.Second, "run result")

	if run.err != nil {
		t.Fatalf("Run: %v", run.err)
	}
	if run.result.File != nil {
		t.Errorf("expected no file, got %+v", run.result.File)
	}
	if run.result.ResourceName != "media/absent" {
		t.Errorf("ResourceName = %s", run.result.ResourceName)
	}
}

func TestRunReportsRemoteFailure(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	status := &operation.Status{Code: 3, Message: "invalid filter"}
	service := &fakeService{script: []*operation.Operation{{Done: true, Error: status}}}
	runner := newTestRunner(t, service, fakeClock)

	results := startRun(runner, filepath.Join(t.TempDir(), "out.zip"))
	fireWaits(fakeClock, 1)
	run := testutil.RequireReceive(t, results, 5*time.Second, "run result")

	if run.err != nil {
		t.Fatalf("Run: %v", run.err)
	}
	if run.result.Outcome != operation.OutcomeFailed {
		t.Fatalf("Outcome = %v, want failed", run.result.Outcome)
	}
	var statusErr *operation.StatusError
	if !errors.As(run.result.Err(), &statusErr) {
		t.Fatalf("Err() = %v, want *operation.StatusError", run.result.Err())
	}
	if statusErr.Status.Code != 3 || statusErr.Operation != taskName {
		t.Errorf("unexpected status error: %+v", statusErr)
	}
}

func TestRunSoftTimeout(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{script: []*operation.Operation{{}}}
	runner := newTestRunner(t, service, fakeClock)

	results := startRun(runner, filepath.Join(t.TempDir(), "out.zip"))
	// 1s + 2s + 4s = 7s; the next 4s would pass the 10s budget.
	fireWaits(fakeClock, 3)
	run := testutil.RequireReceive(t, results, 5*time.Second, "run result")

	if run.err != nil {
		t.Fatalf("Run: %v", run.err)
	}
	if run.result.Outcome != operation.OutcomePending {
		t.Fatalf("Outcome = %v, want pending", run.result.Outcome)
	}
	if run.result.Operation.Name != taskName {
		t.Errorf("pending operation name = %s", run.result.Operation.Name)
	}
	if run.result.Err() != nil {
		t.Errorf("Err() = %v, want nil for pending", run.result.Err())
	}
}

func TestRunCreateFailure(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	createErr := &displayvideo.APIError{StatusCode: 403, Message: "no access"}
	service := &fakeService{createErr: createErr, script: []*operation.Operation{{}}}
	runner := newTestRunner(t, service, fakeClock)

	_, err := runner.Run(context.Background(), testRequest, "")
	if !errors.Is(err, createErr) {
		t.Fatalf("expected create error, got %v", err)
	}
	if service.checkCount() != 0 {
		t.Errorf("status checks = %d, want 0", service.checkCount())
	}
}

func TestRunMissingResourceName(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{script: []*operation.Operation{{Done: true, Response: map[string]any{}}}}
	runner := newTestRunner(t, service, fakeClock)

	results := startRun(runner, "")
	fireWaits(fakeClock, 1)
	run := testutil.RequireReceive(t, results, 5*time.Second, "run result")

	if !errors.Is(run.err, operation.ErrNoResourceName) {
		t.Fatalf("expected ErrNoResourceName, got %v", run.err)
	}
}

func TestResumeFinishedOperationDoesNotWait(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{script: []*operation.Operation{succeeded("media/3")}}
	runner := newTestRunner(t, service, fakeClock)

	var started []*operation.Operation
	runner.Started = func(op *operation.Operation) { started = append(started, op) }

	result, err := runner.Resume(context.Background(), "sdfdownloadtasks/operations/7", "")
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if result.Operation.Name != "sdfdownloadtasks/operations/7" || result.Outcome != operation.OutcomeSucceeded {
		t.Errorf("result = %+v", result)
	}
	if result.ResourceName != "media/3" {
		t.Errorf("ResourceName = %s", result.ResourceName)
	}
	if service.checkCount() != 1 {
		t.Errorf("status checks = %d, want 1", service.checkCount())
	}
	if fakeClock.PendingTimers() != 0 {
		t.Error("Resume waited on an operation that had already finished")
	}
	if len(started) != 1 || !started[0].Done {
		t.Errorf("Started hook calls = %+v", started)
	}

	if _, err := runner.Resume(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestResumePendingOperationPolls(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{script: []*operation.Operation{{}, succeeded("media/4")}}
	runner := newTestRunner(t, service, fakeClock)

	results := make(chan runResult, 1)
	go func() {
		result, err := runner.Resume(context.Background(), "sdfdownloadtasks/operations/8", "")
		results <- runResult{result: result, err: err}
	}()
	fireWaits(fakeClock, 1)
	run := testutil.RequireReceive(t, results, 5*time.Second, "resume result")

	if run.err != nil {
		t.Fatalf("Resume: %v", run.err)
	}
	if run.result.Outcome != operation.OutcomeSucceeded || run.result.ResourceName != "media/4" {
		t.Errorf("result = %+v", run.result)
	}
	if service.checkCount() != 2 {
		t.Errorf("status checks = %d, want 2", service.checkCount())
	}
}

func TestResumeStatusCheckFailure(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	checkErr := errors.New("connection refused")
	service := &fakeService{getErr: checkErr, script: []*operation.Operation{{}}}
	runner := newTestRunner(t, service, fakeClock)

	result, err := runner.Resume(context.Background(), "sdfdownloadtasks/operations/9", "")
	if !errors.Is(err, checkErr) {
		t.Fatalf("Resume error = %v, want %v", err, checkErr)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if fakeClock.PendingTimers() != 0 {
		t.Error("Resume waited after a failed status check")
	}
}

func TestRunCancelledKeepsLastOperation(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	service := &fakeService{script: []*operation.Operation{{}}}
	runner := newTestRunner(t, service, fakeClock)

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan runResult, 1)
	go func() {
		result, err := runner.Run(ctx, testRequest, "")
		results <- runResult{result: result, err: err}
	}()
	fakeClock.WaitForTimers(1)
	cancel()
	run := testutil.RequireReceive(t, results, 5*time.Second, "run result")

	if !errors.Is(run.err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", run.err)
	}
	if run.result == nil || run.result.Operation.Name != taskName {
		t.Fatalf("expected last operation on cancel, got %+v", run.result)
	}
}
