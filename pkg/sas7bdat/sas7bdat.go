// Package sas7bdat is the public facade: a one-shot ExportDataset call
// and a StreamWriter for callers that produce rows incrementally.
package sas7bdat

import (
	"iter"

	"github.com/hailam/sas7bdat/internal/application"
	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
)

// DatasetMeta carries dataset-level attributes not implied by the
// variable list: its label and creation timestamp.
type DatasetMeta = application.DatasetMeta

// ExportDataset writes every row rows yields to sink as a SAS7BDAT file
// in one call, per spec.md §6's "export_dataset" entry point. rows is
// an iterator rather than a slice so a caller streaming from a CSV,
// database cursor, or other source never has to materialize every
// observation in memory first; the total row count is unknown until
// exhausted, so Close's patched fields rely solely on what was
// actually written.
func ExportDataset(sink ports.Sink, vars []ports.Variable, meta DatasetMeta, rows iter.Seq[ports.Observation]) error {
	w, err := NewStreamWriter(sink, vars, meta, 0)
	if err != nil {
		return err
	}
	for row := range rows {
		if err := w.WriteObservation(row); err != nil {
			return err
		}
	}
	return w.Close()
}

// StreamWriter writes observations to a sink incrementally. Not safe
// for concurrent use; one StreamWriter corresponds to one file.
type StreamWriter struct {
	exp          *application.Exporter
	expectedRows int64
	written      int64
}

// NewStreamWriter validates sink and vars and prepares a writer for
// expectedRows observations. expectedRows is advisory only: fewer or
// more rows may actually be written before Close.
func NewStreamWriter(sink ports.Sink, vars []ports.Variable, meta DatasetMeta, expectedRows int64) (*StreamWriter, error) {
	if sink == nil {
		return nil, sasfmterr.Argument("sink must not be nil")
	}
	if vars == nil {
		return nil, sasfmterr.Argument("variable list must not be nil")
	}
	exp, err := application.New(sink, vars, meta, expectedRows)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{exp: exp, expectedRows: expectedRows}, nil
}

// WriteObservation appends one row.
func (w *StreamWriter) WriteObservation(values ports.Observation) error {
	if err := w.exp.WriteObservation(values); err != nil {
		return err
	}
	w.written++
	return nil
}

// IsComplete reports whether as many rows have been written as were
// expected at construction.
func (w *StreamWriter) IsComplete() bool {
	return w.written >= w.expectedRows
}

// Close finalizes back-referenced fields and flushes the file to the
// sink. Idempotent.
func (w *StreamWriter) Close() error {
	return w.exp.Close()
}
