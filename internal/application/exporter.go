// Package application hosts the Exporter: the orchestrator that wires
// VariablesLayout, PageLayout and the nine subheader kinds together into
// the fixed build order of spec.md §4.9, then streams observations and
// renders the finished file on Close.
package application

import (
	"log"
	"time"

	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sasfmt/fileheader"
	"github.com/hailam/sas7bdat/internal/sasfmt/layout"
	"github.com/hailam/sas7bdat/internal/sasfmt/page"
	"github.com/hailam/sas7bdat/internal/sasfmt/pagelayout"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

// DatasetMeta carries the dataset-level attributes a Variable list alone
// doesn't: its label and the creation timestamp stamped into FileHeader.
type DatasetMeta struct {
	Label        string
	CreationTime time.Time
}

const (
	datasetTypeText = "DATA"
	creatorProcText = "DATASTEP"
)

var (
	signatureRowSize          uint32 = 0xF7F7F7F7
	signatureColumnSize       uint32 = 0xF6F6F6F6
	signatureColumnText       uint32 = 0xFFFFFFFD
	signatureColumnAttributes uint32 = 0xFFFFFFFC
	signatureColumnName       uint32 = 0xFFFFFFFF
	signatureColumnFormat     uint32 = 0xFFFFFBFE
	signatureColumnList       uint32 = 0xFFFFFFFE
)

type signatureTracker struct {
	signature   uint32
	firstPage   uint32
	firstPos    uint32
	count       uint32
	haveFirst   bool
}

// Exporter is the single-file, single-goroutine orchestrator of
// spec.md §4.9. It is not safe for concurrent use.
type Exporter struct {
	sink   ports.Sink
	meta   DatasetMeta
	layout *layout.Layout
	pl     *pagelayout.PageLayout

	rowSize         *subheader.RowSize
	columnSize      *subheader.ColumnSize
	subheaderCounts *subheader.SubheaderCounts

	firstColumnFormatPage int
	firstColumnFormatPos  int
	columnFormatsOnPage1  uint64
	columnFormatsOnPage2  uint64

	trackers []*signatureTracker

	closed bool
}

// New validates vars, builds the Exporter's internal layout/page chain,
// and writes every metadata subheader in the fixed order spec.md §4.9
// names. sink and vars must be non-nil/non-empty.
func New(sink ports.Sink, vars []ports.Variable, meta DatasetMeta, expectedRows int64) (*Exporter, error) {
	if sink == nil {
		return nil, sasfmterr.Argument("sink must not be nil")
	}
	lay, err := layout.New(vars)
	if err != nil {
		return nil, err
	}

	pageSize := page.CalculatePageSize(lay.RowLength())
	pl := pagelayout.New(pageSize, lay.RowLength())

	e := &Exporter{
		sink:   sink,
		meta:   meta,
		layout: lay,
		pl:     pl,
	}

	e.rowSize = &subheader.RowSize{}
	if err := pl.AddSubheader(e.rowSize); err != nil {
		return nil, err
	}
	e.track(signatureRowSize, e.rowSize)

	e.columnSize = &subheader.ColumnSize{TotalVariables: lay.TotalVariables()}
	if err := pl.AddSubheader(e.columnSize); err != nil {
		return nil, err
	}
	e.track(signatureColumnSize, e.columnSize)

	e.subheaderCounts = &subheader.SubheaderCounts{}
	if err := pl.AddSubheader(e.subheaderCounts); err != nil {
		return nil, err
	}

	ct := pl.ColumnText()
	datasetTypeLoc, err := ct.Add(datasetTypeText)
	if err != nil {
		return nil, err
	}
	datasetLabelLoc, err := ct.Add(meta.Label)
	if err != nil {
		return nil, err
	}
	if _, err := ct.Add(creatorProcText); err != nil {
		return nil, err
	}

	type varText struct {
		name, label, inFmt, outFmt subheader.TextLocation
	}
	varTexts := make([]varText, lay.TotalVariables())
	var aggregateNameLength uint64
	var maxVarName, maxVarLabel uint16
	for i, v := range lay.Variables() {
		nameLoc, err := ct.Add(v.Name)
		if err != nil {
			return nil, err
		}
		labelLoc, err := ct.Add(v.Label)
		if err != nil {
			return nil, err
		}
		inFmtLoc, err := ct.Add(v.InputFormat.Name)
		if err != nil {
			return nil, err
		}
		outFmtLoc, err := ct.Add(v.OutputFormat.Name)
		if err != nil {
			return nil, err
		}
		varTexts[i] = varText{name: nameLoc, label: labelLoc, inFmt: inFmtLoc, outFmt: outFmtLoc}

		aggregateNameLength += uint64(len(v.Name))
		if n := len(v.Name); uint16(n) > maxVarName {
			maxVarName = uint16(n)
		}
		if n := len(v.Label); uint16(n) > maxVarLabel {
			maxVarLabel = uint16(n)
		}
	}
	if err := ct.NoMoreText(); err != nil {
		return nil, err
	}
	e.trackColumnText(ct.SubheaderCount())

	offsets := make([]int, lay.TotalVariables())
	for i := range offsets {
		offsets[i] = lay.PhysicalOffset(i)
	}
	for start := 0; start < lay.TotalVariables(); {
		ca, n := subheader.NewColumnAttributesSplit(lay.Variables(), offsets, start, subheader.MaxVariableSize)
		if n == 0 {
			return nil, sasfmterr.Statef("no column-attributes split could fit variable %d", start)
		}
		if err := pl.AddSubheader(ca); err != nil {
			return nil, err
		}
		e.track(signatureColumnAttributes, ca)
		start += n
	}

	nameLocs := make([]subheader.TextLocation, len(varTexts))
	for i, vt := range varTexts {
		nameLocs[i] = vt.name
	}
	for start := 0; start < len(nameLocs); {
		cn, n := subheader.NewColumnNameSplit(nameLocs, start, subheader.MaxVariableSize)
		if n == 0 {
			return nil, sasfmterr.Statef("no column-name split could fit variable %d", start)
		}
		if err := pl.AddSubheader(cn); err != nil {
			return nil, err
		}
		e.track(signatureColumnName, cn)
		start += n
	}

	for i, v := range lay.Variables() {
		cf := &subheader.ColumnFormat{
			OutputWidth:      v.OutputFormat.Width,
			OutputDigits:     v.OutputFormat.Digits,
			InputWidth:       v.InputFormat.Width,
			InputDigits:      v.InputFormat.Digits,
			InputFormatName:  varTexts[i].inFmt,
			OutputFormatName: varTexts[i].outFmt,
			Label:            varTexts[i].label,
		}
		if err := pl.AddSubheader(cf); err != nil {
			return nil, err
		}
		pos, _ := pl.Position(cf)
		if i == 0 {
			e.firstColumnFormatPage, e.firstColumnFormatPos = pos.PageIndex, pos.PositionInPage
		}
		switch pos.PageIndex {
		case 1:
			e.columnFormatsOnPage1++
		case 2:
			e.columnFormatsOnPage2++
		}
		e.track(signatureColumnFormat, cf)
	}

	varNumbers := make([]uint16, lay.TotalVariables())
	for i := range varNumbers {
		varNumbers[i] = uint16(i + 1)
	}
	for start := 0; start < len(varNumbers); {
		cl, n := subheader.NewColumnListSplit(varNumbers, start, subheader.MaxVariableSize)
		if n == 0 {
			return nil, sasfmterr.Statef("no column-list split could fit variable %d", start)
		}
		if err := pl.AddSubheader(cl); err != nil {
			return nil, err
		}
		e.track(signatureColumnList, cl)
		start += n
	}

	pl.FinalizeMetadata()

	e.rowSize.AggregateVariableNameLength = aggregateNameLength
	e.rowSize.MaxVarNameLength = maxVarName
	e.rowSize.MaxVarLabelLength = maxVarLabel
	e.rowSize.PageSize = uint64(pageSize)
	e.rowSize.MaxObsOnMixedPage = uint64(page.MaxObservationsPerDataPage(pageSize, lay.RowLength()))
	e.rowSize.RowLength = uint64(lay.RowLength())
	e.rowSize.InitialPageSequence = pl.InitialPageSequence()
	e.rowSize.DatasetLabel = datasetLabelLoc
	e.rowSize.DatasetType = datasetTypeLoc
	// Tolerated-garbage triples, per spec.md §9(i): re-emitted bit-exact
	// regardless of whether the referenced bytes hold the named literal.
	log.Printf("Warning: RowSize compressionAlgorithmName/secondEntry/creatorProc written as fixed placeholder locations, not resolved text")
	e.rowSize.CompressionAlgorithmName = subheader.TextLocation{SubheaderIndex: 0, Offset: 8, Length: 4}
	e.rowSize.SecondEntry = subheader.TextLocation{SubheaderIndex: 0, Offset: 12, Length: 8}
	e.rowSize.CreatorProc = subheader.TextLocation{SubheaderIndex: 0, Offset: 28, Length: 8}
	e.rowSize.ColumnTextSubheaderCount = uint16(ct.SubheaderCount())
	e.rowSize.ColumnFormatsOnFirstPage = e.columnFormatsOnPage1
	e.rowSize.ColumnFormatsOnSecondPage = e.columnFormatsOnPage2

	if pos, ok := pl.Position(e.columnSize); ok {
		e.rowSize.PageIndexOfColumnSize = uint64(pos.PageIndex)
		e.rowSize.PositionOfColumnSize = uint64(pos.PositionInPage)
	}
	e.rowSize.PageOfFirstColumnFormat = uint64(e.firstColumnFormatPage)
	e.rowSize.PositionOfFirstColumnFormat = uint64(e.firstColumnFormatPos)

	return e, nil
}

func (e *Exporter) track(sig uint32, s subheader.Subheader) {
	for _, t := range e.trackers {
		if t.signature == sig {
			t.count++
			return
		}
	}
	pos, ok := e.pl.Position(s)
	t := &signatureTracker{signature: sig, count: 1}
	if ok {
		t.firstPage, t.firstPos, t.haveFirst = uint32(pos.PageIndex), uint32(pos.PositionInPage), true
	}
	e.trackers = append(e.trackers, t)
}

func (e *Exporter) trackColumnText(count int) {
	if count == 0 {
		return
	}
	t := &signatureTracker{signature: signatureColumnText, count: uint32(count)}
	e.pl.ForEachSubheader(func(s subheader.Subheader, pageIndex, positionInPage int) {
		if _, ok := s.(*subheader.ColumnText); ok && !t.haveFirst {
			t.firstPage, t.firstPos, t.haveFirst = uint32(pageIndex), uint32(positionInPage), true
		}
	})
	e.trackers = append(e.trackers, t)
}

// WriteObservation encodes and forwards one row to the page chain.
func (e *Exporter) WriteObservation(values ports.Observation) error {
	if e.closed {
		return sasfmterr.State("exporter already closed")
	}
	buf := make([]byte, e.layout.RowLength())
	if err := e.layout.WriteObservation(buf, 0, values); err != nil {
		return err
	}
	if err := e.pl.AddObservation(buf); err != nil {
		return err
	}

	if first, ok := e.pl.FirstObservationPosition(); ok {
		e.rowSize.PageOfFirstObservation = uint64(first.PageIndex)
		e.rowSize.BlockIndexOfFirst = uint64(first.PositionInPage)
	}
	if last, ok := e.pl.LastObservationPosition(); ok {
		e.rowSize.PageOfLastObservation = uint64(last.PageIndex)
		e.rowSize.BlockIndexOfLast = uint64(last.PositionInPage)
	}
	return nil
}

// Close patches RowSize's remaining back-referenced fields now that the
// full page layout is known, then renders FileHeader and every page to
// the sink. Idempotent: a second Close is a no-op.
func (e *Exporter) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	e.rowSize.TotalObservations = uint64(e.pl.TotalObservations())
	e.rowSize.ObservationsInDataset = uint64(e.pl.TotalObservations())
	e.rowSize.MaxObsPerDataPage = capU16(page.MaxObservationsPerDataPage(int(e.rowSize.PageSize), int(e.rowSize.RowLength)))

	if last, ok := e.pl.LastSubheaderPosition(); ok {
		e.rowSize.PageOfLastSubheader = uint64(last.PageIndex)
		e.rowSize.PositionOfLastSubheader = uint64(last.PositionInPage)
	}

	entries := make([]subheader.SignatureCountEntry, 0, len(e.trackers))
	for _, t := range e.trackers {
		entries = append(entries, subheader.SignatureCountEntry{
			Signature: t.signature,
			Page:      t.firstPage,
			Position:  t.firstPos,
			Count:     t.count,
		})
	}
	e.subheaderCounts.Entries = entries

	pages := e.pl.Pages()
	fh, err := fileheader.New(fileheader.Metadata{
		FileLabel:    e.meta.Label,
		CreationTime: e.meta.CreationTime,
	}, int(e.rowSize.PageSize), uint64(len(pages)), e.pl.InitialPageSequence())
	if err != nil {
		return err
	}

	hdrBuf := make([]byte, fileheader.HeaderSize(int(e.rowSize.PageSize)))
	if err := fh.Write(hdrBuf); err != nil {
		return err
	}
	if _, err := e.sink.Write(hdrBuf); err != nil {
		return sasfmterr.WrapIO(err)
	}

	pageBuf := make([]byte, e.rowSize.PageSize)
	for _, pg := range pages {
		for i := range pageBuf {
			pageBuf[i] = 0
		}
		if err := pg.Write(pageBuf); err != nil {
			return err
		}
		if _, err := e.sink.Write(pageBuf); err != nil {
			return sasfmterr.WrapIO(err)
		}
	}
	return nil
}

func capU16(v int) uint16 {
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
