package page

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

func TestNewPageIsDataTypeWhenEmpty(t *testing.T) {
	p := New(1024, 16, 0xAAAAAAAA)
	require.Equal(t, TypeData, p.Type())
}

func TestAddSubheaderThenFinalizeIsMeta(t *testing.T) {
	p := New(1024, 16, 1)
	require.True(t, p.AddSubheader(&subheader.ColumnSize{TotalVariables: 1}))
	p.FinalizeSubheaders()
	require.Equal(t, TypeMeta, p.Type())
}

func TestAddSubheaderFailsWhenPageFull(t *testing.T) {
	p := New(100, 16, 1)
	cs := &subheader.ColumnSize{TotalVariables: 1}
	// 100 - 40 - 24*2(self+terminal) - 24(body) < 0
	require.False(t, p.AddSubheader(cs))
}

func TestAddObservationRespectsRoomFormula(t *testing.T) {
	p := New(100, 16, 1) // 100-40 = 60 usable bytes for rows; 3 rows of 16 fit (48), 4th doesn't (64>60)
	row := make([]byte, 16)
	for i := 0; i < 3; i++ {
		require.True(t, p.AddObservation(row))
	}
	require.False(t, p.AddObservation(row))
	require.Equal(t, 3, p.RowsWritten())
}

func TestTypeIsMixWhenSubheadersAndRowsCoexist(t *testing.T) {
	p := New(4096, 16, 1)
	require.True(t, p.AddSubheader(&subheader.ColumnSize{TotalVariables: 1}))
	p.FinalizeSubheaders()
	require.True(t, p.AddObservation(make([]byte, 16)))
	require.Equal(t, TypeMix, p.Type())
}

func TestWriteRendersHeaderFields(t *testing.T) {
	p := New(4096, 16, 0x12345678)
	require.True(t, p.AddSubheader(&subheader.ColumnSize{TotalVariables: 1}))
	p.FinalizeSubheaders()
	buf := make([]byte, 4096)
	require.NoError(t, p.Write(buf))
	require.Equal(t, byte(0x78), buf[0])
	require.Equal(t, byte(0x34), buf[2])
}

func TestCalculatePageSizeDefaultsTo64KiB(t *testing.T) {
	require.Equal(t, 65536, CalculatePageSize(16))
}

func TestCalculatePageSizeEnlargesForWideRows(t *testing.T) {
	got := CalculatePageSize(70000)
	require.Equal(t, 0, got%1024)
	require.GreaterOrEqual(t, got, 40+70000+1)
}

func TestMaxObservationsPerDataPage(t *testing.T) {
	require.Equal(t, (65536-40)/16, MaxObservationsPerDataPage(65536, 16))
}
