package subheader

import "github.com/hailam/sas7bdat/internal/binio"

var rowSizeSignature = [8]byte{0xF7, 0xF7, 0xF7, 0xF7, 0x00, 0x00, 0x00, 0x00}

// RowSizeSize is the fixed size of the RowSize subheader.
const RowSizeSize = 808

// RowSize carries the dataset-wide fields that reference the position
// of other subheaders (placed before the positions of their siblings
// are known) and of the first/last observation. The Exporter assigns
// these fields directly as the metadata+row layout becomes known, per
// spec.md §9's "back-referenced byte layout" design note.
type RowSize struct {
	RowLength                   uint64
	TotalObservations            uint64
	ColumnFormatsOnFirstPage     uint64
	ColumnFormatsOnSecondPage    uint64
	AggregateVariableNameLength uint64
	PageSize                     uint64
	MaxObsOnMixedPage            uint64
	InitialPageSequence          uint32

	PageIndexOfColumnSize   uint64
	PositionOfColumnSize    uint64
	PageOfLastSubheader     uint64
	PositionOfLastSubheader uint64
	PageOfFirstObservation  uint64
	BlockIndexOfFirst       uint64
	PageOfLastObservation   uint64
	BlockIndexOfLast        uint64
	PageOfFirstColumnFormat uint64
	PositionOfFirstColumnFormat uint64

	CompressionAlgorithmName TextLocation // fixed tolerated-garbage (0,8,4)
	DatasetLabel             TextLocation
	DatasetType              TextLocation
	SecondEntry              TextLocation // fixed tolerated-garbage (0,12,8)
	CreatorProc              TextLocation // fixed tolerated-garbage (0,28,8)

	ColumnTextSubheaderCount uint16
	MaxVarNameLength         uint16
	MaxVarLabelLength        uint16
	MaxObsPerDataPage        uint16
	ObservationsInDataset    uint64
}

func (r *RowSize) Size() int { return RowSizeSize }

func (r *RowSize) TypeCode() TypeCode { return TypeA }

func (r *RowSize) CompressionCode() CompressionCode { return Uncompressed }

func (r *RowSize) WriteSubheader(buf []byte, offset int) error {
	copy(buf[offset:offset+8], rowSizeSignature[:])

	writes := []struct {
		off int
		v   uint64
	}{
		{40, r.RowLength},
		{48, r.TotalObservations},
		{56, 0}, // deletedObservations
		{72, r.ColumnFormatsOnFirstPage},
		{80, r.ColumnFormatsOnSecondPage},
		{96, r.AggregateVariableNameLength},
		{104, r.PageSize},
		{120, r.MaxObsOnMixedPage},
		{360, r.PageIndexOfColumnSize},
		{368, r.PositionOfColumnSize},
		{376, r.PageOfLastSubheader},
		{384, r.PositionOfLastSubheader},
		{392, r.PageOfFirstObservation},
		{400, r.BlockIndexOfFirst},
		{408, r.PageOfLastObservation},
		{416, r.BlockIndexOfLast},
		{424, r.PageOfFirstColumnFormat},
		{432, r.PositionOfFirstColumnFormat},
		{734, r.ObservationsInDataset},
	}
	for _, w := range writes {
		if err := binio.WriteU8(buf, offset+w.off, w.v); err != nil {
			return err
		}
	}
	if err := binio.WriteU4(buf, offset+296, r.InitialPageSequence); err != nil {
		return err
	}

	triples := []struct {
		off int
		loc TextLocation
	}{
		{536, r.CompressionAlgorithmName},
		{542, r.DatasetLabel},
		{548, r.DatasetType},
		{560, r.SecondEntry},
		{566, r.CreatorProc},
	}
	for _, t := range triples {
		if err := WriteTextLocation(buf, offset+t.off, t.loc); err != nil {
			return err
		}
	}

	if err := binio.WriteU2(buf, offset+712, r.ColumnTextSubheaderCount); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+714, r.MaxVarNameLength); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+716, r.MaxVarLabelLength); err != nil {
		return err
	}
	if err := binio.WriteU2(buf, offset+732, r.MaxObsPerDataPage); err != nil {
		return err
	}
	if err := binio.WriteU4(buf, offset+742, 0x01000000); err != nil {
		return err
	}
	return nil
}
