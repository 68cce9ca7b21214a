// Package page implements Sas7bdatPage: a single fixed-size page buffer
// that bin-packs a subheader directory and observation rows.
package page

import (
	"github.com/hailam/sas7bdat/internal/binio"
	"github.com/hailam/sas7bdat/internal/sasfmt/subheader"
)

// PageType identifies the three page kinds a SAS7BDAT file can contain.
type PageType uint16

const (
	TypeData PageType = 0x0100
	TypeMix  PageType = 0x0200
	TypeMeta PageType = 0x0000
)

const (
	headerSize           = 40
	subheaderPointerSize = 24
)

// Page is one pageSize-byte page: a subheader pointer directory growing
// up from offset 40, subheader bodies growing down from the page's top
// edge, and (for MIX/DATA pages) observation rows packed after the
// directory.
type Page struct {
	pageSize          int
	rowLength         int
	sequence          uint32
	subheaders        []subheader.Subheader
	rowsWritten       uint32
	finalized         bool
	isMixedFinalMeta  bool
	rows              [][]byte
}

// New creates an empty page of pageSize bytes for rows of rowLength
// bytes, stamped with the given page sequence value.
func New(pageSize, rowLength int, sequence uint32) *Page {
	return &Page{pageSize: pageSize, rowLength: rowLength, sequence: sequence}
}

// Sequence returns this page's obfuscated sequence number.
func (p *Page) Sequence() uint32 { return p.sequence }

// SubheaderCount returns how many subheaders have been placed on this
// page, including the Terminal marker once FinalizeSubheaders has run.
func (p *Page) SubheaderCount() int { return len(p.subheaders) }

// RowsWritten returns how many observations have been packed so far.
func (p *Page) RowsWritten() int { return int(p.rowsWritten) }

func (p *Page) subheaderSizeTotal() int {
	total := 0
	for _, s := range p.subheaders {
		total += s.Size()
	}
	return total
}

// TotalBytesRemainingForNewSubheader returns how much room is left for
// one more subheader of unknown size, after reserving a pointer for the
// subheader under consideration and one for the eventual Terminal
// marker. Negative means "full".
func (p *Page) TotalBytesRemainingForNewSubheader() int {
	return p.pageSize - headerSize - subheaderPointerSize*(len(p.subheaders)+2) - p.subheaderSizeTotal()
}

// AddSubheader attempts to place s on this page. Returns false
// (non-fatal) if there is no room; the caller should try a fresh page.
func (p *Page) AddSubheader(s subheader.Subheader) bool {
	remaining := p.TotalBytesRemainingForNewSubheader() - s.Size()
	if remaining < 0 {
		return false
	}
	p.subheaders = append(p.subheaders, s)
	return true
}

// FinalizeSubheaders appends the single Terminal subheader. After this
// call no further subheaders may be added, but rows still may be.
func (p *Page) FinalizeSubheaders() {
	if p.finalized {
		return
	}
	p.subheaders = append(p.subheaders, &subheader.Terminal{})
	p.finalized = true
}

// SetIsFinalMetadataPage marks this page as MIX even if it holds no
// rows, for the last metadata page in a dataset per spec.md §4.6.
func (p *Page) SetIsFinalMetadataPage() {
	p.isMixedFinalMeta = true
}

// HasRoomForObservation reports whether one more row of rowLength bytes
// would fit given the subheaders already placed.
func (p *Page) HasRoomForObservation() bool {
	used := headerSize + subheaderPointerSize*len(p.subheaders) + int(p.rowsWritten)*p.rowLength
	return p.rowLength <= p.pageSize-used
}

// AddObservation attempts to append one encoded row. Returns false
// (non-fatal) if the page has no more room.
func (p *Page) AddObservation(rowBytes []byte) bool {
	if !p.HasRoomForObservation() {
		return false
	}
	row := make([]byte, len(rowBytes))
	copy(row, rowBytes)
	p.rows = append(p.rows, row)
	p.rowsWritten++
	return true
}

// Type reports this page's type per the selection rule of spec.md §4.6.
func (p *Page) Type() PageType {
	switch {
	case len(p.subheaders) == 0:
		return TypeData
	case p.rowsWritten > 0 || p.isMixedFinalMeta:
		return TypeMix
	default:
		return TypeMeta
	}
}

// Write renders the complete page into buf, which must be exactly
// pageSize bytes.
func (p *Page) Write(buf []byte) error {
	if err := binio.WriteU4(buf, 0, p.sequence); err != nil {
		return err
	}
	// bytes 4..23: zero.
	freeBytes := p.pageSize - headerSize - subheaderPointerSize*len(p.subheaders) - int(p.rowsWritten)*p.rowLength
	if err := binio.WriteU4(buf, 24, uint32(freeBytes)); err != nil {
		return err
	}
	pageType := p.Type()
	if err := binio.WriteU2(buf, 32, uint16(pageType)); err != nil {
		return err
	}
	totalBlocks := len(p.subheaders) + int(p.rowsWritten)
	if err := binio.WriteU2(buf, 34, uint16(totalBlocks)); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, 36, uint16(len(p.subheaders))); err != nil {
		return err
	}

	// Subheader bodies grow downward from the page's top edge; track
	// each one's absolute start offset as we lay them out back to front,
	// then render pointer + body together.
	bodyEnd := p.pageSize
	bodyStarts := make([]int, len(p.subheaders))
	for i, s := range p.subheaders {
		bodyEnd -= s.Size()
		bodyStarts[i] = bodyEnd
	}

	dirOffset := headerSize
	for i, s := range p.subheaders {
		loc := bodyStarts[i]
		size := s.Size()
		if err := binio.WriteU8(buf, dirOffset, uint64(loc)); err != nil {
			return err
		}
		if err := binio.WriteU8(buf, dirOffset+8, uint64(size)); err != nil {
			return err
		}
		buf[dirOffset+16] = byte(s.CompressionCode())
		buf[dirOffset+17] = byte(s.TypeCode())
		// dirOffset+18..dirOffset+24: reserved, zero.
		dirOffset += subheaderPointerSize

		if size > 0 {
			if err := s.WriteSubheader(buf, loc); err != nil {
				return err
			}
		}
	}

	rowOffset := dirOffset
	for _, row := range p.rows {
		copy(buf[rowOffset:rowOffset+len(row)], row)
		rowOffset += len(row)
	}
	return nil
}

// MaxObservationsPerDataPage returns how many rowLength-byte rows fit on
// a pure DATA page of pageSize bytes.
func MaxObservationsPerDataPage(pageSize, rowLength int) int {
	return (pageSize - headerSize) / rowLength
}

// CalculatePageSize returns the smallest multiple of 1024 bytes that is
// at least max(65536, 40+rowLength+1).
func CalculatePageSize(rowLength int) int {
	min := 40 + rowLength + 1
	if min < 65536 {
		min = 65536
	}
	if rem := min % 1024; rem != 0 {
		min += 1024 - rem
	}
	return min
}
