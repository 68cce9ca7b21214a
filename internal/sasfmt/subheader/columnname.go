package subheader

import (
	"github.com/hailam/sas7bdat/internal/binio"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
)

var columnNameSignature = [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

const columnNameEntrySize = 8
const columnNameHeaderSize = 28

// MaxColumnNameEntries is the largest number of entries a single
// ColumnName subheader may hold, per spec.md §4.5.
const MaxColumnNameEntries = 4089

// ColumnName lists, for a contiguous run of variables, the
// (subheaderIndex, offset, length) of each variable's name in the
// column-text store.
type ColumnName struct {
	Entries []TextLocation
}

// NewColumnNameSplit returns a ColumnName holding the largest prefix of
// locs[start:] whose encoding fits within maxBytes and the 4089-entry
// cap, and the count it consumed.
func NewColumnNameSplit(locs []TextLocation, start int, maxBytes int) (*ColumnName, int) {
	avail := maxBytes - columnNameHeaderSize
	maxN := avail / columnNameEntrySize
	if maxN > MaxColumnNameEntries {
		maxN = MaxColumnNameEntries
	}
	n := len(locs) - start
	if n > maxN {
		n = maxN
	}
	if n < 0 {
		n = 0
	}
	entries := make([]TextLocation, n)
	copy(entries, locs[start:start+n])
	return &ColumnName{Entries: entries}, n
}

func (c *ColumnName) Size() int {
	return columnNameHeaderSize + columnNameEntrySize*len(c.Entries)
}

func (c *ColumnName) TypeCode() TypeCode { return TypeB }

func (c *ColumnName) CompressionCode() CompressionCode { return Uncompressed }

func (c *ColumnName) WriteSubheader(buf []byte, offset int) error {
	if len(c.Entries) > MaxColumnNameEntries {
		return sasfmterr.Statef("column name subheader holds %d entries, exceeds cap %d", len(c.Entries), MaxColumnNameEntries)
	}
	copy(buf[offset:offset+8], columnNameSignature[:])
	if err := binio.WriteU4(buf, offset+8, uint32(c.Size())); err != nil {
		return err
	}
	pos := offset + columnNameHeaderSize
	for _, e := range c.Entries {
		if err := binio.WriteU2(buf, pos, e.SubheaderIndex); err != nil {
			return err
		}
		if err := binio.WriteU2(buf, pos+2, e.Offset); err != nil {
			return err
		}
		if err := binio.WriteU2(buf, pos+4, e.Length); err != nil {
			return err
		}
		// pos+6: reserved, zero.
		pos += columnNameEntrySize
	}
	return nil
}
