package subheader

import "github.com/hailam/sas7bdat/internal/binio"

var subheaderCountsSignature = [8]byte{0x00, 0xFC, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// SubheaderCountsSize is the fixed size of the SubheaderCounts subheader.
const SubheaderCountsSize = 600

// unknownConstantOffset112 is a constant preserved bit-exact for reader
// compatibility, per spec.md §9(ii); its meaning is undocumented upstream.
const unknownConstantOffset112 uint32 = 1804

// SignatureCountEntry records where the first subheader of a given kind
// landed, and how many subheaders of that kind exist in total — a hint
// some readers use to skip straight to a kind of interest.
type SignatureCountEntry struct {
	Signature  uint32
	Page       uint32
	Position   uint32
	Count      uint32
}

// SubheaderCounts lists, per well-known subheader kind, the first
// occurrence's position and the total count of that kind.
type SubheaderCounts struct {
	Entries []SignatureCountEntry
}

func (s *SubheaderCounts) Size() int { return SubheaderCountsSize }

func (s *SubheaderCounts) TypeCode() TypeCode { return TypeA }

func (s *SubheaderCounts) CompressionCode() CompressionCode { return Uncompressed }

const subheaderCountsEntryOffset = 116
const subheaderCountsEntrySize = 20

func (s *SubheaderCounts) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], subheaderCountsSignature[:])
	if err := binio.WriteU4(buf, offset+112, unknownConstantOffset112); err != nil {
		return err
	}
	pos := offset + subheaderCountsEntryOffset
	for _, e := range s.Entries {
		if pos+subheaderCountsEntrySize > offset+SubheaderCountsSize {
			break
		}
		if err := binio.WriteU4(buf, pos, e.Signature); err != nil {
			return err
		}
		if err := binio.WriteU4(buf, pos+4, e.Page); err != nil {
			return err
		}
		if err := binio.WriteU4(buf, pos+8, e.Position); err != nil {
			return err
		}
		if err := binio.WriteU4(buf, pos+12, e.Count); err != nil {
			return err
		}
		// pos+16..pos+20: reserved, zero.
		pos += subheaderCountsEntrySize
	}
	return nil
}
