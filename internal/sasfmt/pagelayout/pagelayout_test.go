package pagelayout

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/sas7bdat/internal/sasfmt/page"
	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

func TestAddSubheaderRecordsPosition(t *testing.T) {
	pl := New(65536, 16)
	cs := &subheader.ColumnSize{TotalVariables: 1}
	require.NoError(t, pl.AddSubheader(cs))
	pos, ok := pl.Position(cs)
	require.True(t, ok)
	require.Equal(t, Position{PageIndex: 1, PositionInPage: 1}, pos)
}

func TestAddSubheaderOpensNewPageWhenFull(t *testing.T) {
	pl := New(128, 16) // room for exactly one 24-byte subheader plus the Terminal pointer
	first := &subheader.ColumnSize{TotalVariables: 1}
	require.NoError(t, pl.AddSubheader(first))
	second := &subheader.ColumnSize{TotalVariables: 1}
	require.NoError(t, pl.AddSubheader(second))
	posFirst, _ := pl.Position(first)
	posSecond, _ := pl.Position(second)
	require.NotEqual(t, posFirst.PageIndex, posSecond.PageIndex)
	require.Equal(t, 2, pl.TotalPages())
}

func TestFinalizeMetadataMarksFinalPageWhenNoRowRoom(t *testing.T) {
	pl := New(128, 80) // after finalizing, 128-40-2*24 = 40 bytes remain: no room for an 80-byte row
	require.NoError(t, pl.AddSubheader(&subheader.ColumnSize{TotalVariables: 1}))
	pl.FinalizeMetadata()
	pages := pl.Pages()
	require.Len(t, pages, 1)
	require.Equal(t, page.TypeMix, pages[0].Type())
}

func TestAddObservationTracksFirstAndLast(t *testing.T) {
	pl := New(100, 16)
	row := make([]byte, 16)
	require.NoError(t, pl.AddObservation(row))
	require.NoError(t, pl.AddObservation(row))
	first, ok := pl.FirstObservationPosition()
	require.True(t, ok)
	require.Equal(t, Position{PageIndex: 1, PositionInPage: 1}, first)
	last, ok := pl.LastObservationPosition()
	require.True(t, ok)
	require.Equal(t, Position{PageIndex: 1, PositionInPage: 2}, last)
	require.Equal(t, int64(2), pl.TotalObservations())
}

func TestAddObservationOpensDataPagesOnOverflow(t *testing.T) {
	pl := New(100, 16) // (100-40)/16 = 3 rows per page
	pl.FinalizeMetadata()
	row := make([]byte, 16)
	for i := 0; i < 5; i++ {
		require.NoError(t, pl.AddObservation(row))
	}
	require.GreaterOrEqual(t, pl.TotalPages(), 2)
}

func TestForEachSubheaderVisitsEveryPage(t *testing.T) {
	pl := New(128, 16) // one subheader per page, so a and b land on pages 1 and 2
	a := &subheader.ColumnSize{TotalVariables: 1}
	b := &subheader.ColumnSize{TotalVariables: 2}
	require.NoError(t, pl.AddSubheader(a))
	require.NoError(t, pl.AddSubheader(b))

	seen := 0
	pl.ForEachSubheader(func(s subheader.Subheader, pageIndex, positionInPage int) {
		seen++
	})
	require.Equal(t, 2, seen)
}

func TestForEachSubheaderVisitsInAscendingPositionOrder(t *testing.T) {
	pl := New(65536, 16) // large enough that every subheader below lands on page 1
	first := &subheader.ColumnSize{TotalVariables: 1}
	second := &subheader.ColumnSize{TotalVariables: 2}
	third := &subheader.ColumnSize{TotalVariables: 3}
	require.NoError(t, pl.AddSubheader(first))
	require.NoError(t, pl.AddSubheader(second))
	require.NoError(t, pl.AddSubheader(third))

	var gotOrder []subheader.Subheader
	var gotPositions []int
	pl.ForEachSubheader(func(s subheader.Subheader, pageIndex, positionInPage int) {
		gotOrder = append(gotOrder, s)
		gotPositions = append(gotPositions, positionInPage)
	})

	require.Equal(t, []subheader.Subheader{first, second, third}, gotOrder)
	require.True(t, sort.IntsAreSorted(gotPositions))
	require.Equal(t, []int{1, 2, 3}, gotPositions)
}
