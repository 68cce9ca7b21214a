package subheader

import "github.com/hailam/sas7bdat/internal/binio"

var columnFormatSignature = [8]byte{0xFE, 0xFB, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// ColumnFormatSize is the fixed size of every ColumnFormat subheader.
const ColumnFormatSize = 76

// ColumnFormat carries one variable's input/output format widths and
// digits plus text-store pointers to its input-format name, output-
// format name, and label.
type ColumnFormat struct {
	OutputWidth, OutputDigits int
	InputWidth, InputDigits   int
	InputFormatName           TextLocation
	OutputFormatName          TextLocation
	Label                     TextLocation
}

func (c *ColumnFormat) Size() int { return ColumnFormatSize }

func (c *ColumnFormat) TypeCode() TypeCode { return TypeA }

func (c *ColumnFormat) CompressionCode() CompressionCode { return Uncompressed }

func (c *ColumnFormat) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], columnFormatSignature[:])
	// offset+8..offset+32: reserved, zero.
	if err := binio.WriteU2(buf, offset+32, uint16(c.OutputWidth)); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+34, uint16(c.OutputDigits)); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+36, uint16(c.InputWidth)); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+38, uint16(c.InputDigits)); err != nil {
		return err
	}
	// offset+40..offset+48: reserved, zero.
	if err := WriteTextLocation(buf, offset+48, c.InputFormatName); err != nil {
		return err
	}
	if err := WriteTextLocation(buf, offset+54, c.OutputFormatName); err != nil {
		return err
	}
	if err := WriteTextLocation(buf, offset+60, c.Label); err != nil {
		return err
	}
	// offset+66..offset+76: zero-filled.
	return nil
}

func WriteTextLocation(buf []byte, offset int, loc TextLocation) error {
	if err := binio.WriteU2(buf, offset, loc.SubheaderIndex); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+2, loc.Offset); err != nil {
		return err
	}
	return binio.WriteU2(buf, offset+4, loc.Length)
}
