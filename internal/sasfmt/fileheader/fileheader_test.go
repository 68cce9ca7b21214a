package fileheader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHeaderSizeDefaultsTo1024(t *testing.T) {
	require.Equal(t, 1024, HeaderSize(65536))
}

func TestHeaderSizeEnlargesForBigPages(t *testing.T) {
	got := HeaderSize(200000)
	require.Equal(t, 0, got%1024)
	require.GreaterOrEqual(t, got, 200000)
}

func TestNewRejectsOversizeTotalPages(t *testing.T) {
	_, err := New(Metadata{}, 65536, 1<<40, 0)
	require.Error(t, err)
}

func TestWriteRendersFixedMagicAndLabel(t *testing.T) {
	h, err := New(Metadata{
		FileLabel:    "My Dataset",
		CreationTime: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
	}, 65536, 3, 0xF4A4FFF6)
	require.NoError(t, err)

	buf := make([]byte, HeaderSize(65536))
	require.NoError(t, h.Write(buf))
	require.Equal(t, magic[:], buf[0:32])
	require.Equal(t, []byte("SAS FILE"), buf[84:92])
	require.Equal(t, "My Dataset", string(buf[92:102]))
}

func TestWriteZeroCreationTimeEncodesAsEpoch(t *testing.T) {
	h, err := New(Metadata{CreationTime: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)}, 65536, 1, 0)
	require.NoError(t, err)
	buf := make([]byte, HeaderSize(65536))
	require.NoError(t, h.Write(buf))
	// The two creation-time doubles sit right after "DATA    " + 4 zero bytes.
	off := 84 + 8 + 64 + 8 + 4
	for i := 0; i < 8; i++ {
		require.Equal(t, byte(0), buf[off+i], "creation time at SAS epoch must encode as 0.0")
	}
}
