// Package pagelayout implements PageLayout: the ordered chain of pages
// a dataset's subheaders and rows are distributed across, plus the
// position map later back-reference patching depends on.
package pagelayout

import (
	"sort"

	"github.com/hailam/sas7bdat/internal/sasfmt/coltext"
	"github.com/hailam/sas7bdat/internal/sasfmt/page"
	"github.com/hailam/sas7bdat/internal/sasfmt/pageseq"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

// Position is a subheader's 1-based location: which page it landed on,
// and which ordinal subheader it is on that page.
type Position struct {
	PageIndex      int // 1-based
	PositionInPage int // 1-based
}

// PageLayout owns every page, the single ColumnTextStore, and the
// subheader -> Position map back-references are resolved through.
type PageLayout struct {
	pageSize     int
	rowLength    int
	seq          *pageseq.Sequence
	complete     []*page.Page
	current      *page.Page
	positions    map[subheader.Subheader]Position
	columnText   *coltext.Store
	lastAdded    subheader.Subheader
	firstObsPos  *Position
	firstObsBlk  int
	lastObsPos   Position
	lastObsBlk   int
	totalObs     int64
}

// New creates a PageLayout for the given page and row size. The
// returned PageLayout is itself a valid coltext.Placer.
func New(pageSize, rowLength int) *PageLayout {
	pl := &PageLayout{
		pageSize:  pageSize,
		rowLength: rowLength,
		seq:       pageseq.New(),
		positions: make(map[subheader.Subheader]Position),
	}
	pl.current = page.New(pageSize, rowLength, pl.seq.Current())
	pl.columnText = coltext.New(pl)
	return pl
}

// ColumnText returns the PageLayout's owned ColumnTextStore.
func (pl *PageLayout) ColumnText() *coltext.Store { return pl.columnText }

// openNewPage finalizes and archives the current page (if it holds any
// subheaders), then opens a fresh one with the next sequence value.
func (pl *PageLayout) openNewPage() error {
	if pl.current.SubheaderCount() > 0 && pl.current.Type() != page.TypeData {
		pl.current.FinalizeSubheaders()
	}
	pl.complete = append(pl.complete, pl.current)
	seqVal, err := pl.seq.Increment()
	if err != nil {
		return err
	}
	pl.current = page.New(pl.pageSize, pl.rowLength, seqVal)
	return nil
}

// AddSubheader places s on the current page, opening a new page first
// if the current one has no room and already holds subheaders. s's
// position is frozen into the position map the moment it lands.
func (pl *PageLayout) AddSubheader(s subheader.Subheader) error {
	if pl.current.AddSubheader(s) {
		pl.recordPosition(s)
		pl.lastAdded = s
		return nil
	}
	if pl.current.SubheaderCount() > 0 {
		if err := pl.openNewPage(); err != nil {
			return err
		}
	}
	if !pl.current.AddSubheader(s) {
		return sasfmterr.Statef("subheader of %d bytes does not fit on a fresh %d-byte page", s.Size(), pl.pageSize)
	}
	pl.recordPosition(s)
	pl.lastAdded = s
	return nil
}

func (pl *PageLayout) recordPosition(s subheader.Subheader) {
	pageIndex := len(pl.complete) + 1
	positionInPage := pl.current.SubheaderCount()
	pl.positions[s] = Position{PageIndex: pageIndex, PositionInPage: positionInPage}
}

// Position returns where subheader s landed, per spec.md §4.7's
// forEachSubheader contract.
func (pl *PageLayout) Position(s subheader.Subheader) (Position, bool) {
	p, ok := pl.positions[s]
	return p, ok
}

// LastSubheaderPosition returns the position of the most recently added
// subheader, used to patch RowSize's pageOfLastSubheader fields.
func (pl *PageLayout) LastSubheaderPosition() (Position, bool) {
	if pl.lastAdded == nil {
		return Position{}, false
	}
	return pl.Position(pl.lastAdded)
}

// FinalizeMetadata closes out subheader placement on the current page:
// it appends the Terminal marker, then marks the page MIX-eligible
// (isFinalMetadataPage) unless it already has room to start absorbing
// observation rows.
func (pl *PageLayout) FinalizeMetadata() {
	pl.current.FinalizeSubheaders()
	if !pl.current.HasRoomForObservation() {
		pl.current.SetIsFinalMetadataPage()
	}
}

// AddObservation packs one already-encoded row, opening new DATA pages
// as the current one fills.
func (pl *PageLayout) AddObservation(rowBytes []byte) error {
	for !pl.current.AddObservation(rowBytes) {
		pl.complete = append(pl.complete, pl.current)
		seqVal, err := pl.seq.Increment()
		if err != nil {
			return err
		}
		pl.current = page.New(pl.pageSize, pl.rowLength, seqVal)
	}
	pageIndex := len(pl.complete) + 1
	blockIndex := pl.current.SubheaderCount() + pl.current.RowsWritten() // 1-based after AddObservation succeeded
	pos := Position{PageIndex: pageIndex, PositionInPage: blockIndex}
	if pl.firstObsPos == nil {
		posCopy := pos
		pl.firstObsPos = &posCopy
	}
	pl.lastObsPos = pos
	pl.totalObs++
	return nil
}

// FirstObservationPosition returns the page/block of the first row
// written, if any.
func (pl *PageLayout) FirstObservationPosition() (Position, bool) {
	if pl.firstObsPos == nil {
		return Position{}, false
	}
	return *pl.firstObsPos, true
}

// LastObservationPosition returns the page/block of the last row written.
func (pl *PageLayout) LastObservationPosition() (Position, bool) {
	if pl.firstObsPos == nil {
		return Position{}, false
	}
	return pl.lastObsPos, true
}

// TotalObservations returns how many rows have been written so far.
func (pl *PageLayout) TotalObservations() int64 { return pl.totalObs }

// ForEachSubheader iterates every subheader across every page, in
// order, calling cb(s, pageIndex, positionInPage).
func (pl *PageLayout) ForEachSubheader(cb func(s subheader.Subheader, pageIndex, positionInPage int)) {
	type entry struct {
		s   subheader.Subheader
		pos Position
	}
	byPage := make(map[int][]entry, len(pl.complete)+1)
	for s, pos := range pl.positions {
		byPage[pos.PageIndex] = append(byPage[pos.PageIndex], entry{s: s, pos: pos})
	}
	visit := func(pageIndex int) {
		entries := byPage[pageIndex]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].pos.PositionInPage < entries[j].pos.PositionInPage
		})
		for _, e := range entries {
			cb(e.s, e.pos.PageIndex, e.pos.PositionInPage)
		}
	}
	for i := range pl.complete {
		visit(i + 1)
	}
	visit(len(pl.complete) + 1)
}

// Pages returns every page in order, the current page last. It does not
// finalize any page.
func (pl *PageLayout) Pages() []*page.Page {
	all := make([]*page.Page, 0, len(pl.complete)+1)
	all = append(all, pl.complete...)
	all = append(all, pl.current)
	return all
}

// TotalPages returns how many pages the dataset currently spans.
func (pl *PageLayout) TotalPages() int {
	return len(pl.complete) + 1
}

// InitialPageSequence returns the sequence value the writer began at.
func (pl *PageLayout) InitialPageSequence() uint32 {
	return pl.seq.Initial()
}
