package warehouse

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors reported by Client implementations.
var (
	// ErrDatasetNotFound indicates the dataset resource does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrTableNotFound indicates the table resource does not exist.
	ErrTableNotFound = errors.New("table not found")
)

// UnimplementedError marks a feature path the system does not support yet.
// It carries the offending value; callers surface it instead of degrading.
type UnimplementedError struct {
	// Feature names the unsupported path, e.g. "table type" or
	// "foreign key recovery".
	Feature string

	// Value is the offending input value.
	Value string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented %s: %q", e.Feature, e.Value)
}

// Unimplemented builds an UnimplementedError.
func Unimplemented(feature, value string) error {
	return &UnimplementedError{Feature: feature, Value: value}
}

// RowError describes the failure of a single row within an insert. Rows are
// keyed by index because partial success is possible and must be reported
// per row.
type RowError struct {
	// Index is the zero-based position of the row in the insert call.
	Index int

	// Row is the offending row payload.
	Row map[string]any

	// Reason is a human-readable failure description.
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Index, e.Reason)
}

// RowInsertError aggregates per-row insert failures. Rows absent from Rows
// were inserted successfully.
type RowInsertError struct {
	Rows []RowError
}

func (e *RowInsertError) Error() string {
	parts := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		parts[i] = r.Error()
	}
	return fmt.Sprintf("%d row(s) failed: %s", len(e.Rows), strings.Join(parts, "; "))
}

// QueryDetail is one structured error reported by the remote store for a
// query.
type QueryDetail struct {
	Message  string
	Location string
	Reason   string
}

func (d QueryDetail) String() string {
	return fmt.Sprintf("%s (location=%s, reason=%s)", d.Message, d.Location, d.Reason)
}

// QueryError collects the structured errors of a failed query. Remote
// failures with no structured detail are surfaced unmodified instead.
type QueryError struct {
	Details []QueryDetail
}

func (e *QueryError) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.String()
	}
	return "query failed: " + strings.Join(parts, "; ")
}
