package subheader

import (
	"github.com/hailam/sas7bdat/internal/binio"
	"github.com/hailam/sas7bdat/internal/ports"
)

var columnAttributesSignature = [8]byte{0xFC, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// ColumnAttributeEntry is one 16-byte column-attributes record.
type ColumnAttributeEntry struct {
	PhysicalOffset uint64
	Length         uint32
	VariableNumber int
	Type           ports.VariableType
}

const columnAttributesEntrySize = 16
const columnAttributesHeaderSize = 28

// ColumnAttributes lists the physical offset/length/type of a
// contiguous run of variables. Splitting across multiple subheaders is
// driven by NewColumnAttributesSplit.
type ColumnAttributes struct {
	Entries []ColumnAttributeEntry
}

// NewColumnAttributesSplit returns a ColumnAttributes holding the
// largest prefix of vars[start:] (with physical offsets offsets[start:])
// whose encoding fits within maxBytes, and the count it consumed.
func NewColumnAttributesSplit(vars []ports.Variable, offsets []int, start int, maxBytes int) (*ColumnAttributes, int) {
	avail := maxBytes - columnAttributesHeaderSize
	maxN := avail / columnAttributesEntrySize
	n := len(vars) - start
	if n > maxN {
		n = maxN
	}
	if n < 0 {
		n = 0
	}
	entries := make([]ColumnAttributeEntry, 0, n)
	for i := start; i < start+n; i++ {
		entries = append(entries, ColumnAttributeEntry{
			PhysicalOffset: uint64(offsets[i]),
			Length:         uint32(vars[i].Length),
			VariableNumber: i + 1,
			Type:           vars[i].Type,
		})
	}
	return &ColumnAttributes{Entries: entries}, n
}

func (c *ColumnAttributes) Size() int {
	return columnAttributesHeaderSize + columnAttributesEntrySize*len(c.Entries)
}

func (c *ColumnAttributes) TypeCode() TypeCode { return TypeB }

func (c *ColumnAttributes) CompressionCode() CompressionCode { return Uncompressed }

func (c *ColumnAttributes) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], columnAttributesSignature[:])
	if err := binio.WriteU4(buf, offset+8, uint32(c.Size())); err != nil {
		return err
	}
	// offset+12..offset+28: reserved, zero.
	pos := offset + columnAttributesHeaderSize
	for _, e := range c.Entries {
		if err := binio.WriteU8(buf, pos, e.PhysicalOffset); err != nil {
			return err
		}
		if err := binio.WriteU4(buf, pos+8, e.Length); err != nil {
			return err
		}
		// nameAttr0/nameAttr1 encode the variable number, little-endian.
		buf[pos+12] = byte(e.VariableNumber)
		buf[pos+13] = byte(e.VariableNumber >> 8)
		if e.Type == ports.Character {
			buf[pos+14] = 2
		} else {
			buf[pos+14] = 1
		}
		buf[pos+15] = 0
		pos += columnAttributesEntrySize
	}
	return nil
}
