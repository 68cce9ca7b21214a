package subheader

import "github.com/hailam/sas7bdat/internal/binio"

var columnListSignature = [8]byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

const columnListHeaderSize = 40
const columnListEntrySize = 2

// MaxColumnListEntries is the largest number of variable numbers a
// single ColumnList subheader may hold, per spec.md §4.5.
const MaxColumnListEntries = 16345

// ColumnList is a contiguous run of 1-based variable numbers.
type ColumnList struct {
	VariableNumbers []uint16
}

// NewColumnListSplit returns a ColumnList holding the largest prefix of
// numbers[start:] whose encoding fits within maxBytes and the
// 16345-entry cap, and the count it consumed.
func NewColumnListSplit(numbers []uint16, start int, maxBytes int) (*ColumnList, int) {
	avail := maxBytes - columnListHeaderSize
	maxN := avail / columnListEntrySize
	if maxN > MaxColumnListEntries {
		maxN = MaxColumnListEntries
	}
	n := len(numbers) - start
	if n > maxN {
		n = maxN
	}
	if n < 0 {
		n = 0
	}
	entries := make([]uint16, n)
	copy(entries, numbers[start:start+n])
	return &ColumnList{VariableNumbers: entries}, n
}

func (c *ColumnList) Size() int {
	return columnListHeaderSize + columnListEntrySize*len(c.VariableNumbers)
}

func (c *ColumnList) TypeCode() TypeCode { return TypeB }

func (c *ColumnList) CompressionCode() CompressionCode { return Uncompressed }

func (c *ColumnList) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], columnListSignature[:])
	n := len(c.VariableNumbers)
	// The 40-byte header reports the four counts spec.md §6 names
	// (totalVariablesInSublist, length-of-list, a constant 1, and the
	// count again), all as 4-byte fields, zero-padded to 40 bytes.
	if err := binio.WriteU4(buf, offset+8, uint32(n)); err != nil {
		return err
	}
	if err := binio.WriteU4(buf, offset+12, uint32(c.Size())); err != nil {
		return err
	}
	if err := binio.WriteU4(buf, offset+16, 1); err != nil {
		return err
	}
	if err := binio.WriteU4(buf, offset+20, uint32(n)); err != nil {
		return err
	}
	// offset+24..offset+40: reserved, zero.
	pos := offset + columnListHeaderSize
	for _, v := range c.VariableNumbers {
		if err := binio.WriteU2(buf, pos, v); err != nil {
			return err
		}
		pos += columnListEntrySize
	}
	return nil
}
