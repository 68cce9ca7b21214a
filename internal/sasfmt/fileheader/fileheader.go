// Package fileheader renders the fixed 512-byte FileHeader that leads
// every SAS7BDAT file, per spec.md §4.8.
package fileheader

import (
	"math"
	"time"

	"github.com/hailam/sas7bdat/internal/binio"
	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
)

// Size is the fixed byte length of a FileHeader.
const Size = 512

var magic = [32]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xc2, 0xea, 0x81, 0x60,
	0xb3, 0x14, 0x11, 0xcf, 0xbd, 0x92, 0x08, 0x00,
	0x09, 0xc7, 0x31, 0x8c, 0x18, 0x1f, 0x10, 0x11,
}

// platformStructure is the 52-byte fixed pattern identifying a 64-bit
// little-endian Unix writer, bytes 32..83.
var platformStructure = [52]byte{
	0x33, 0x22, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // align2 marker + reserved
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // endianness=1 (little), platform=2 (unix)
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

var knownConstants16 = [16]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x14,
}

var trailingFixedPatterns12 = [12]byte{
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// Metadata is the caller-supplied dataset-level information a FileHeader
// needs beyond the page geometry.
type Metadata struct {
	FileLabel    string
	CreationTime time.Time
}

// FileHeader renders the leading 512-byte record of a SAS7BDAT file.
type FileHeader struct {
	Label               string
	CreationTime        time.Time
	PageSize            int
	TotalPages          uint64
	InitialPageSequence uint32
}

// New builds a FileHeader from dataset metadata and the final page
// geometry. TotalPages must already be known, so FileHeader is emitted
// last per spec.md §4.7's ownership note.
func New(meta Metadata, pageSize int, totalPages uint64, initialPageSequence uint32) (*FileHeader, error) {
	if totalPages > 0x7FFFFFFF {
		return nil, sasfmterr.Argumentf("total pages %d does not fit the file header's page count field", totalPages)
	}
	return &FileHeader{
		Label:               meta.FileLabel,
		CreationTime:        meta.CreationTime,
		PageSize:            pageSize,
		TotalPages:          totalPages,
		InitialPageSequence: initialPageSequence,
	}, nil
}

// HeaderSize returns the on-disk size of the header record: 1024, or
// the smallest multiple of 1024 >= pageSize when pageSize exceeds 64KiB.
func HeaderSize(pageSize int) int {
	const base = 1024
	if pageSize <= 64*1024 {
		return base
	}
	if rem := pageSize % base; rem != 0 {
		return pageSize + (base - rem)
	}
	return pageSize
}

// Write renders the header into buf, which must be at least
// HeaderSize(h.PageSize) bytes; only the first 512 bytes are used, the
// remainder (if the header is padded to a larger size) is left zero.
func (h *FileHeader) Write(buf []byte) error {
	hdrSize := HeaderSize(h.PageSize)
	if len(buf) < hdrSize {
		return sasfmterr.Argumentf("file header buffer is %d bytes, need at least %d", len(buf), hdrSize)
	}

	off := 0
	copy(buf[off:off+32], magic[:])
	off += 32
	copy(buf[off:off+52], platformStructure[:])
	off += 52

	if err := binio.WriteAscii(buf, off, "SAS FILE", 8); err != nil {
		return err
	}
	off += 8

	if err := binio.WriteUtf8(buf, off, h.Label, 64, 0x00); err != nil {
		return err
	}
	off += 64

	if err := binio.WriteAscii(buf, off, "DATA    ", 8); err != nil {
		return err
	}
	off += 8

	off += 4 // reserved, zero

	creationBits := sasEpochBits(h.CreationTime)
	if err := binio.WriteFloat8(buf, off, creationBits); err != nil {
		return err
	}
	off += 8
	if err := binio.WriteFloat8(buf, off, creationBits); err != nil {
		return err
	}
	off += 8

	copy(buf[off:off+16], knownConstants16[:])
	off += 16

	if err := binio.WriteU4(buf, off, uint32(hdrSize)); err != nil {
		return err
	}
	off += 4
	if err := binio.WriteU4(buf, off, uint32(h.PageSize)); err != nil {
		return err
	}
	off += 4
	if err := binio.WriteU8(buf, off, h.TotalPages); err != nil {
		return err
	}
	off += 8

	off += 8 // reserved, zero

	if err := binio.WriteAscii(buf, off, "9.0401M2", 8); err != nil {
		return err
	}
	off += 8
	if err := binio.WriteAscii(buf, off, "Linux", 16); err != nil {
		return err
	}
	off += 16
	if err := binio.WriteAscii(buf, off, "4.4.104-18.44", 16); err != nil {
		return err
	}
	off += 16
	if err := binio.WriteAscii(buf, off, "", 16); err != nil { // 16 spaces
		return err
	}
	off += 16
	if err := binio.WriteAscii(buf, off, "x86_64", 16); err != nil {
		return err
	}
	off += 16

	copy(buf[off:off+12], trailingFixedPatterns12[:])
	off += 12

	off += 16 // reserved, zero

	if err := binio.WriteU4(buf, off, h.InitialPageSequence); err != nil {
		return err
	}
	off += 4

	if err := binio.WriteFloat8(buf, off, creationBits); err != nil {
		return err
	}
	off += 8

	// Remaining bytes through hdrSize are trailing zero padding.
	for i := off; i < hdrSize && i < Size; i++ {
		buf[i] = 0
	}
	return nil
}

func sasEpochBits(t time.Time) uint64 {
	return math.Float64bits(ports.SasEpochSeconds(t))
}
