package coltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

type fakePlacer struct {
	placed []subheader.Subheader
}

func (f *fakePlacer) AddSubheader(s subheader.Subheader) error {
	f.placed = append(f.placed, s)
	return nil
}

func TestAddEmptyStringNeverAllocates(t *testing.T) {
	p := &fakePlacer{}
	s := New(p)
	loc, err := s.Add("")
	require.NoError(t, err)
	require.Equal(t, subheader.TextLocation{}, loc)
	require.Empty(t, p.placed)
}

func TestAddDeduplicatesByIdentity(t *testing.T) {
	p := &fakePlacer{}
	s := New(p)
	loc1, err := s.Add("hello")
	require.NoError(t, err)
	loc2, err := s.Add("hello")
	require.NoError(t, err)
	require.Equal(t, loc1, loc2)
}

func TestAddRotatesWhenSubheaderFills(t *testing.T) {
	p := &fakePlacer{}
	s := New(p)
	big := strings.Repeat("x", subheader.MaxVariableSize-28-4)
	_, err := s.Add(big)
	require.NoError(t, err)
	require.Empty(t, p.placed)

	_, err = s.Add("tips the subheader over capacity")
	require.NoError(t, err)
	require.Len(t, p.placed, 1)
}

func TestNoMoreTextFinalizesAndIsIdempotent(t *testing.T) {
	p := &fakePlacer{}
	s := New(p)
	_, err := s.Add("only string")
	require.NoError(t, err)
	require.NoError(t, s.NoMoreText())
	require.Len(t, p.placed, 1)
	require.NoError(t, s.NoMoreText())
	require.Len(t, p.placed, 1)

	_, err = s.Add("too late")
	require.Error(t, err)
}

func TestWriteTextLocationUnknownString(t *testing.T) {
	p := &fakePlacer{}
	s := New(p)
	buf := make([]byte, 6)
	err := s.WriteTextLocation(buf, 0, "never added")
	require.Error(t, err)
}
