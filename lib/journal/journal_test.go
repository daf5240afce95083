// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/displayvideo/lib/clock"
	"github.com/bureau-foundation/displayvideo/lib/compress"
	"github.com/bureau-foundation/displayvideo/lib/operation"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func openTestJournal(t *testing.T, tag compress.Tag, fakeClock *clock.FakeClock) *Journal {
	t.Helper()
	j, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		Compression: tag,
		Clock:       fakeClock,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return j
}

func TestRecordAndGetAcrossCompressions(t *testing.T) {
	for _, tag := range []compress.Tag{compress.None, compress.LZ4, compress.Zstd} {
		t.Run(tag.String(), func(t *testing.T) {
			j := openTestJournal(t, tag, clock.Fake(epoch))
			ctx := context.Background()

			op := &operation.Operation{
				Name: "sdfdownloadtasks/operations/1",
				Done: true,
				Response: map[string]any{
					"resourceName": "sdfdownloadtasks/media/1",
					"@type":        strings.Repeat("type.googleapis.com/google.ads.displayvideo.v4.SdfDownloadTask ", 4),
				},
			}
			if err := j.Record(ctx, KindSdfDownload, op); err != nil {
				t.Fatalf("Record: %v", err)
			}

			entry, err := j.Get(ctx, op.Name)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if entry.Kind != KindSdfDownload || !entry.Done || entry.Outcome != operation.OutcomeSucceeded {
				t.Errorf("entry = %+v", entry)
			}
			if entry.ResourceName != "sdfdownloadtasks/media/1" {
				t.Errorf("ResourceName = %q", entry.ResourceName)
			}
			if got, _ := entry.Operation.ResourceName(); got != "sdfdownloadtasks/media/1" {
				t.Errorf("snapshot resource name = %q", got)
			}
		})
	}
}

func TestRecordUpdatesState(t *testing.T) {
	fakeClock := clock.Fake(epoch)
	j := openTestJournal(t, compress.Zstd, fakeClock)
	ctx := context.Background()
	name := "sdfdownloadtasks/operations/2"

	if err := j.Record(ctx, KindSdfDownload, &operation.Operation{Name: name}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	fakeClock.Advance(5 * time.Second)
	failed := &operation.Operation{Name: name, Done: true, Error: &operation.Status{Code: 3, Message: "bad filter"}}
	if err := j.Record(ctx, KindObserved, failed); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entry, err := j.Get(ctx, name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Kind != KindSdfDownload {
		t.Errorf("kind changed to %s", entry.Kind)
	}
	if entry.Observations != 2 {
		t.Errorf("Observations = %d, want 2", entry.Observations)
	}
	if entry.Outcome != operation.OutcomeFailed || entry.ErrorCode != 3 || entry.ErrorMessage != "bad filter" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.ResourceName != "" {
		t.Errorf("failed operation has resource name %q", entry.ResourceName)
	}
	if !entry.FirstSeen.Equal(epoch) || !entry.LastSeen.Equal(epoch.Add(5*time.Second)) {
		t.Errorf("seen = %v .. %v", entry.FirstSeen, entry.LastSeen)
	}
}

func TestGetNotFound(t *testing.T) {
	j := openTestJournal(t, compress.None, clock.Fake(epoch))
	if _, err := j.Get(context.Background(), "sdfdownloadtasks/operations/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	fakeClock := clock.Fake(epoch)
	j := openTestJournal(t, compress.LZ4, fakeClock)
	ctx := context.Background()

	for _, op := range []*operation.Operation{
		{Name: "ops/a"},
		{Name: "ops/b", Done: true, Response: map[string]any{}},
		{Name: "ops/c"},
	} {
		if err := j.Record(ctx, KindObserved, op); err != nil {
			t.Fatalf("Record: %v", err)
		}
		fakeClock.Advance(time.Second)
	}

	all, err := j.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if names := entryNames(all); names != "ops/c,ops/b,ops/a" {
		t.Errorf("List order = %s", names)
	}

	pending, err := j.List(ctx, ListOptions{PendingOnly: true, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if names := entryNames(pending); names != "ops/c" {
		t.Errorf("pending = %s", names)
	}
}

func TestRecordRejectsNameless(t *testing.T) {
	j := openTestJournal(t, compress.None, clock.Fake(epoch))
	if err := j.Record(context.Background(), KindObserved, &operation.Operation{}); err == nil {
		t.Error("recorded an operation without a name")
	}
	if err := j.Record(context.Background(), KindObserved, nil); err == nil {
		t.Error("recorded a nil operation")
	}
}

func TestObserverSwallowsErrors(t *testing.T) {
	j := openTestJournal(t, compress.None, clock.Fake(epoch))
	observe := j.Observer(context.Background(), KindObserved)

	observe(&operation.Operation{})
	observe(&operation.Operation{Name: "ops/x"})

	entry, err := j.Get(context.Background(), "ops/x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Observations != 1 {
		t.Errorf("Observations = %d", entry.Observations)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Open accepted an empty path")
	}
}

func entryNames(entries []Entry) string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	return strings.Join(names, ",")
}
