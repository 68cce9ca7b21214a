package sas7bdat

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sink"
)

func claimsSchema() []ports.Variable {
	return []ports.Variable{
		{Name: "AMOUNT", Type: ports.Numeric, Length: 8},
		{Name: "STATE", Type: ports.Character, Length: 2},
	}
}

func TestExportDatasetOneShot(t *testing.T) {
	s := sink.NewBuffer()
	rows := []ports.Observation{
		{100.5, "CA"},
		{200.25, "NY"},
	}
	meta := DatasetMeta{Label: "Claims", CreationTime: time.Now()}
	require.NoError(t, ExportDataset(s, claimsSchema(), meta, slices.Values(rows)))
	require.NotEmpty(t, s.Bytes())
}

func TestNewStreamWriterRejectsNilSink(t *testing.T) {
	_, err := NewStreamWriter(nil, claimsSchema(), DatasetMeta{}, 0)
	require.Error(t, err)
}

func TestStreamWriterIsComplete(t *testing.T) {
	s := sink.NewBuffer()
	w, err := NewStreamWriter(s, claimsSchema(), DatasetMeta{}, 2)
	require.NoError(t, err)
	require.False(t, w.IsComplete())
	require.NoError(t, w.WriteObservation(ports.Observation{1.0, "CA"}))
	require.False(t, w.IsComplete())
	require.NoError(t, w.WriteObservation(ports.Observation{2.0, "NY"}))
	require.True(t, w.IsComplete())
	require.NoError(t, w.Close())
}
