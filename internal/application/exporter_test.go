package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sink"
)

func oneNumericVar() []ports.Variable {
	return []ports.Variable{
		{Name: "V", Type: ports.Numeric, Length: 8, InputFormat: ports.UnspecifiedFormat, OutputFormat: ports.UnspecifiedFormat},
	}
}

func TestNewRejectsNilSink(t *testing.T) {
	_, err := New(nil, oneNumericVar(), DatasetMeta{}, 0)
	require.Error(t, err)
}

func TestNewRejectsEmptyVariableList(t *testing.T) {
	s := sink.NewBuffer()
	_, err := New(s, nil, DatasetMeta{}, 0)
	require.Error(t, err)
}

func TestExportSingleNumericZeroRows(t *testing.T) {
	s := sink.NewBuffer()
	meta := DatasetMeta{Label: "", CreationTime: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)}
	e, err := New(s, oneNumericVar(), meta, 0)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	out := s.Bytes()
	require.True(t, len(out) > 512)
	// Exactly the 1024-byte header plus exactly one 65536-byte page.
	require.Equal(t, 1024+65536, len(out))
}

func TestWriteObservationThenClose(t *testing.T) {
	s := sink.NewBuffer()
	meta := DatasetMeta{Label: "L", CreationTime: time.Now()}
	e, err := New(s, oneNumericVar(), meta, 2)
	require.NoError(t, err)
	require.NoError(t, e.WriteObservation(ports.Observation{1.0}))
	require.NoError(t, e.WriteObservation(ports.Observation{2.0}))
	require.NoError(t, e.Close())
	require.Equal(t, uint64(2), e.rowSize.TotalObservations)
}

func TestWriteObservationAfterCloseFails(t *testing.T) {
	s := sink.NewBuffer()
	e, err := New(s, oneNumericVar(), DatasetMeta{}, 0)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	err = e.WriteObservation(ports.Observation{1.0})
	require.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := sink.NewBuffer()
	e, err := New(s, oneNumericVar(), DatasetMeta{}, 0)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	firstLen := len(s.Bytes())
	require.NoError(t, e.Close())
	require.Equal(t, firstLen, len(s.Bytes()))
}

func TestManyVariablesProducesMultipleColumnTextSubheaders(t *testing.T) {
	var vars []ports.Variable
	// Names must be distinct: the column text store deduplicates repeats.
	// 2000 names of 29 bytes (32 with padding) exceed one subheader's payload.
	for i := 0; i < 2000; i++ {
		vars = append(vars, ports.Variable{
			Name: fmt.Sprintf("VARNAME_PADDED_TO_ROTATE_%04d", i), Type: ports.Numeric, Length: 8,
		})
	}
	s := sink.NewBuffer()
	e, err := New(s, vars, DatasetMeta{}, 0)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.Greater(t, e.rowSize.ColumnTextSubheaderCount, uint16(1))
}
