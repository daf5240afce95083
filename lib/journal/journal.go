// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/displayvideo/lib/clock"
	"github.com/bureau-foundation/displayvideo/lib/codec"
	"github.com/bureau-foundation/displayvideo/lib/compress"
	"github.com/bureau-foundation/displayvideo/lib/operation"
	"github.com/bureau-foundation/displayvideo/lib/sqlitepool"
)

// Kind says how an operation entered the journal.
type Kind string

const (
	// KindSdfDownload is an operation created by an SDF download task.
	KindSdfDownload Kind = "sdf_download"

	// KindObserved is an operation first seen through a status query.
	KindObserved Kind = "observed"
)

// ErrNotFound is returned by Get for an operation never recorded.
var ErrNotFound = errors.New("journal: operation not found")

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	name           TEXT PRIMARY KEY,
	kind           TEXT NOT NULL,
	done           INTEGER NOT NULL,
	error_code     INTEGER,
	error_message  TEXT,
	resource_name  TEXT,
	observations   INTEGER NOT NULL,
	first_seen     INTEGER NOT NULL,
	last_seen      INTEGER NOT NULL,
	compression    INTEGER NOT NULL,
	snapshot_size  INTEGER NOT NULL,
	snapshot       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS operations_pending ON operations (done, last_seen);
`

// Config configures Open.
type Config struct {
	// Path is the SQLite database file. Required.
	Path string

	// Compression is applied to snapshots. Snapshots that do not
	// shrink are stored uncompressed.
	Compression compress.Tag

	// Clock stamps first/last seen times. Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

// Journal is a persistent record of operations. Safe for concurrent
// use.
type Journal struct {
	pool        *sqlitepool.Pool
	compression compress.Tag
	clock       clock.Clock
	logger      *slog.Logger
}

// Entry is one journaled operation.
type Entry struct {
	Name         string            `json:"name"`
	Kind         Kind              `json:"kind"`
	Done         bool              `json:"done"`
	Outcome      operation.Outcome `json:"outcome"`
	ErrorCode    int               `json:"error_code,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	ResourceName string            `json:"resource_name,omitempty"`
	Observations int               `json:"observations"`
	FirstSeen    time.Time         `json:"first_seen"`
	LastSeen     time.Time         `json:"last_seen"`

	// Operation is the latest snapshot, decoded.
	Operation *operation.Operation `json:"operation"`
}

// ListOptions filters List.
type ListOptions struct {
	// PendingOnly restricts the result to operations not yet done.
	PendingOnly bool

	// Limit caps the number of entries. Zero means 50.
	Limit int
}

const defaultListLimit = 50

// Open opens (creating if needed) the journal at config.Path.
func Open(config Config) (*Journal, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("journal: Path is required")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   config.Path,
		Logger: logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return &Journal{
		pool:        pool,
		compression: config.Compression,
		clock:       clk,
		logger:      logger,
	}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.pool.Close()
}

// Record stores the latest state of op. The first Record of a name
// fixes its kind and first-seen time; later ones replace the state and
// bump the observation count.
func (j *Journal) Record(ctx context.Context, kind Kind, op *operation.Operation) error {
	if op == nil || op.Name == "" {
		return fmt.Errorf("journal: cannot record an operation without a name")
	}

	encoded, err := codec.Marshal(op)
	if err != nil {
		return fmt.Errorf("journal: encoding %s: %w", op.Name, err)
	}
	snapshot, tag, err := compress.CompressOrStore(encoded, j.compression)
	if err != nil {
		return fmt.Errorf("journal: compressing %s: %w", op.Name, err)
	}

	var errorCode, errorMessage, resourceName any
	if op.Done && op.Error != nil {
		errorCode = op.Error.Code
		errorMessage = op.Error.Message
	}
	if name, err := op.ResourceName(); err == nil {
		resourceName = name
	}
	now := j.clock.Now().UnixNano()

	return j.pool.With(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			INSERT INTO operations
				(name, kind, done, error_code, error_message, resource_name,
				 observations, first_seen, last_seen, compression, snapshot_size, snapshot)
			VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET
				done = excluded.done,
				error_code = excluded.error_code,
				error_message = excluded.error_message,
				resource_name = excluded.resource_name,
				observations = operations.observations + 1,
				last_seen = excluded.last_seen,
				compression = excluded.compression,
				snapshot_size = excluded.snapshot_size,
				snapshot = excluded.snapshot`,
			&sqlitex.ExecOptions{
				Args: []any{
					op.Name, string(kind), op.Done, errorCode, errorMessage, resourceName,
					now, now, int(tag), len(encoded), snapshot,
				},
			})
		if err != nil {
			return fmt.Errorf("journal: recording %s: %w", op.Name, err)
		}
		return nil
	})
}

// Observer returns a function suitable for operation.PollerConfig's
// Observe hook. Failures are logged, never returned.
func (j *Journal) Observer(ctx context.Context, kind Kind) func(*operation.Operation) {
	return func(op *operation.Operation) {
		if err := j.Record(ctx, kind, op); err != nil {
			j.logger.Warn("journal record failed", "operation", op.Name, "error", err)
		}
	}
}

const selectColumns = `name, kind, done, error_code, error_message, resource_name,
	observations, first_seen, last_seen, compression, snapshot_size, snapshot`

// Get returns the journaled entry for name, or ErrNotFound.
func (j *Journal) Get(ctx context.Context, name string) (*Entry, error) {
	var entry *Entry
	err := j.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT "+selectColumns+" FROM operations WHERE name = ?",
			&sqlitex.ExecOptions{
				Args: []any{name},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					scanned, err := scanEntry(stmt)
					if err != nil {
						return err
					}
					entry = scanned
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("journal: reading %s: %w", name, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return entry, nil
}

// List returns entries, most recently seen first.
func (j *Journal) List(ctx context.Context, options ListOptions) ([]Entry, error) {
	limit := options.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := "SELECT " + selectColumns + " FROM operations"
	if options.PendingOnly {
		query += " WHERE done = 0"
	}
	query += " ORDER BY last_seen DESC, name LIMIT ?"

	var entries []Entry
	err := j.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entry, err := scanEntry(stmt)
				if err != nil {
					return err
				}
				entries = append(entries, *entry)
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("journal: listing: %w", err)
	}
	return entries, nil
}

// scanEntry decodes one row selected with selectColumns.
func scanEntry(stmt *sqlite.Stmt) (*Entry, error) {
	entry := &Entry{
		Name:         stmt.ColumnText(0),
		Kind:         Kind(stmt.ColumnText(1)),
		Done:         stmt.ColumnBool(2),
		ErrorCode:    stmt.ColumnInt(3),
		ErrorMessage: stmt.ColumnText(4),
		ResourceName: stmt.ColumnText(5),
		Observations: stmt.ColumnInt(6),
		FirstSeen:    time.Unix(0, stmt.ColumnInt64(7)).UTC(),
		LastSeen:     time.Unix(0, stmt.ColumnInt64(8)).UTC(),
	}

	tag := compress.Tag(stmt.ColumnInt(9))
	size := stmt.ColumnInt(10)
	stored := make([]byte, stmt.ColumnLen(11))
	stmt.ColumnBytes(11, stored)

	encoded, err := compress.Decompress(stored, tag, size)
	if err != nil {
		return nil, fmt.Errorf("snapshot of %s: %w", entry.Name, err)
	}
	var op operation.Operation
	if err := codec.Unmarshal(encoded, &op); err != nil {
		return nil, fmt.Errorf("decoding snapshot of %s: %w", entry.Name, err)
	}
	entry.Operation = &op
	entry.Outcome = op.Outcome()
	return entry, nil
}
