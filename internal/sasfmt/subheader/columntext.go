package subheader

import "github.com/hailam/sas7bdat/internal/binio"

var columnTextSignature = [8]byte{0xFD, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// ColumnText is the interned-string blob subheader. Its payload is built
// incrementally by coltext.Store; once PadToMaxSize or finalization
// happens its Size() becomes fixed.
type ColumnText struct {
	Index int
	data  []byte
	// capacity is the maximum payload length this subheader may hold,
	// matching subheader.MaxVariableSize minus the fixed overhead.
	capacity int
}

// columnTextPayloadOverhead is the part of a ColumnText subheader's fixed
// 28-byte header that follows the 8-byte signature.
const columnTextPayloadOverhead = 28 - 8

// NewColumnText creates an empty ColumnText subheader for the given index.
func NewColumnText(index int) *ColumnText {
	return &ColumnText{Index: index, capacity: MaxVariableSize - 28}
}

// RemainingCapacity returns how many more payload bytes (rounded to a
// multiple of 4) this subheader can still accept.
func (c *ColumnText) RemainingCapacity() int {
	return c.capacity - len(c.data)
}

// Append writes raw bytes s followed by 0..3 zero pad bytes so the
// payload stays 4-byte aligned, and returns the byte offset (within the
// payload, i.e. relative to subheader offset 28) the caller's string
// begins at.
func (c *ColumnText) Append(s []byte) int {
	start := len(c.data)
	c.data = append(c.data, s...)
	pad := (4 - (len(s) % 4)) % 4
	for i := 0; i < pad; i++ {
		c.data = append(c.data, 0)
	}
	return start
}

// PadToMaxSize right-pads the payload with zero bytes to consume the
// subheader's full remaining capacity, used when the subheader is being
// closed out in favor of a fresh one.
func (c *ColumnText) PadToMaxSize() {
	for len(c.data) < c.capacity {
		c.data = append(c.data, 0)
	}
}

func (c *ColumnText) Size() int { return 28 + len(c.data) }

func (c *ColumnText) TypeCode() TypeCode { return TypeB }

func (c *ColumnText) CompressionCode() CompressionCode { return Uncompressed }

func (c *ColumnText) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], columnTextSignature[:])
	if err := binio.WriteU4(buf, offset+8, uint32(c.Size())); err != nil {
		return err
	}
	// offset+12..offset+28: reserved, zero.
	copy(buf[offset+28:offset+28+len(c.data)], c.data)
	return nil
}
