// Package coltext implements the deduplicating interned-string table
// (ColumnTextStore) that every other subheader kind points into by
// (subheaderIndex, offset, length).
package coltext

import (
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

// Placer is the subset of PageLayout the store needs: a place to hand
// off a ColumnText subheader once it is full. Defined here rather than
// in pagelayout so pagelayout can depend on coltext without a cycle.
type Placer interface {
	AddSubheader(s subheader.Subheader) error
}

// Store is the ColumnTextStore of spec.md §4.4.
type Store struct {
	placer    Placer
	locations map[string]subheader.TextLocation
	current   *subheader.ColumnText
	nextIndex int
	finalized bool
}

// New creates a Store. The empty string is always present at (0,0,0).
func New(placer Placer) *Store {
	s := &Store{
		placer:    placer,
		locations: map[string]subheader.TextLocation{"": {SubheaderIndex: 0, Offset: 0, Length: 0}},
		current:   subheader.NewColumnText(0),
		nextIndex: 1,
	}
	return s
}

// Add interns s, returning its recorded location. The empty string
// never allocates; a repeat of a previously added string reuses its
// existing location.
func (s *Store) Add(str string) (subheader.TextLocation, error) {
	if str == "" {
		return s.locations[""], nil
	}
	if loc, ok := s.locations[str]; ok {
		return loc, nil
	}
	if s.finalized {
		return subheader.TextLocation{}, sasfmterr.State("column text store already finalized")
	}
	b := []byte(str)
	n := len(b)
	rounded := ((n + 3) / 4) * 4
	if s.current.RemainingCapacity() < rounded {
		if err := s.rotate(); err != nil {
			return subheader.TextLocation{}, err
		}
		if s.current.RemainingCapacity() < rounded {
			return subheader.TextLocation{}, sasfmterr.Argumentf("string of %d bytes exceeds the column text subheader capacity", n)
		}
	}
	offset := s.current.Append(b)
	loc := subheader.TextLocation{
		SubheaderIndex: uint16(s.current.Index),
		Offset:         uint16(offset),
		Length:         uint16(n),
	}
	s.locations[str] = loc
	return loc, nil
}

// rotate finalizes the current subheader, hands it to the Placer, and
// opens a fresh one. The Placer's own addSubheader logic (spec.md §4.7)
// advances to a new page when the current one has no room left, so no
// extra page-advance logic is needed here.
func (s *Store) rotate() error {
	s.current.PadToMaxSize()
	if err := s.placer.AddSubheader(s.current); err != nil {
		return err
	}
	s.current = subheader.NewColumnText(s.nextIndex)
	s.nextIndex++
	return nil
}

// NoMoreText finalizes the last in-progress subheader and hands it to
// the Placer. Idempotent.
func (s *Store) NoMoreText() error {
	if s.finalized {
		return nil
	}
	s.finalized = true
	if err := s.placer.AddSubheader(s.current); err != nil {
		return err
	}
	return nil
}

// WriteTextLocation writes the 6-byte triple recorded for str.
func (s *Store) WriteTextLocation(buf []byte, offset int, str string) error {
	loc, ok := s.locations[str]
	if !ok {
		return sasfmterr.Argumentf("string %q was never added to the column text store", str)
	}
	return subheader.WriteTextLocation(buf, offset, loc)
}

// Location returns the recorded location of str without writing.
func (s *Store) Location(str string) (subheader.TextLocation, bool) {
	loc, ok := s.locations[str]
	return loc, ok
}

// SubheaderCount returns how many ColumnText subheaders the store has
// opened, including the one still in progress; after NoMoreText this
// equals the number handed to the Placer.
func (s *Store) SubheaderCount() int {
	return s.nextIndex
}
