package subheader

import "github.com/hailam/sas7bdat/internal/binio"

var columnSizeSignature = [8]byte{0xF6, 0xF6, 0xF6, 0xF6, 0x00, 0x00, 0x00, 0x00}

// ColumnSize records the dataset's total variable count.
type ColumnSize struct {
	TotalVariables int
}

func (c *ColumnSize) Size() int { return 24 }

func (c *ColumnSize) TypeCode() TypeCode { return TypeA }

func (c *ColumnSize) CompressionCode() CompressionCode { return Uncompressed }

func (c *ColumnSize) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], columnSizeSignature[:])
	if err := binio.WriteU8(buf, offset+8, uint64(c.TotalVariables)); err != nil {
		return err
	}
	// offset+16..offset+24: reserved, zero.
	return nil
}
