// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"errors"
	"fmt"
)

// Operation is a server-side handle for asynchronous work, in the wire
// shape the Display & Video 360 API uses (google.longrunning).
type Operation struct {
	// Name identifies the operation, e.g.
	// "sdfdownloadtasks/operations/12345".
	Name string `json:"name"`

	// Done is false while the work is in progress. Once true the
	// operation is terminal and exactly one of Error or Response is set.
	Done bool `json:"done,omitempty"`

	// Error is the failure status of a terminal operation.
	Error *Status `json:"error,omitempty"`

	// Response is the success payload of a terminal operation.
	Response map[string]any `json:"response,omitempty"`

	// Metadata is service-specific progress information. Opaque.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Status is the error carried by a failed operation.
type Status struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Details []map[string]any `json:"details,omitempty"`
}

// StatusError is the error form of a remote operation failure.
type StatusError struct {
	Operation string
	Status    Status
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("operation %s finished in error with code %d: %s",
		err.Operation, err.Status.Code, err.Status.Message)
}

// Err returns the status as an error attributed to operation name.
func (status *Status) Err(name string) error {
	if status == nil {
		return nil
	}
	return &StatusError{Operation: name, Status: *status}
}

// Outcome classifies an observed operation.
type Outcome int

const (
	// OutcomePending means the operation has not finished.
	OutcomePending Outcome = iota
	// OutcomeFailed means the operation finished with an error status.
	OutcomeFailed
	// OutcomeSucceeded means the operation finished without error.
	OutcomeSucceeded
)

func (outcome Outcome) String() string {
	switch outcome {
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("outcome(%d)", int(outcome))
	}
}

// MarshalText renders the outcome name.
func (outcome Outcome) MarshalText() ([]byte, error) {
	return []byte(outcome.String()), nil
}

// Outcome reports which of the three caller-visible states op is in.
// A nil operation is pending.
func (op *Operation) Outcome() Outcome {
	switch {
	case op == nil || !op.Done:
		return OutcomePending
	case op.Error != nil:
		return OutcomeFailed
	default:
		return OutcomeSucceeded
	}
}

// ErrNoResourceName is returned by ResourceName when a succeeded
// operation carries no resource locator.
var ErrNoResourceName = errors.New("operation response has no resourceName")

// ResourceName extracts the downstream resource locator from the
// success payload. Fails for operations that did not succeed.
func (op *Operation) ResourceName() (string, error) {
	if outcome := op.Outcome(); outcome != OutcomeSucceeded {
		return "", fmt.Errorf("operation %s is %s, not succeeded", op.displayName(), outcome)
	}
	name, _ := op.Response["resourceName"].(string)
	if name == "" {
		return "", fmt.Errorf("operation %s: %w", op.Name, ErrNoResourceName)
	}
	return name, nil
}

func (op *Operation) displayName() string {
	if op == nil {
		return "<nil>"
	}
	return op.Name
}
