package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSinkWritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	s, err := NewFile(path)
	require.NoError(t, err)

	n, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, s.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestBufferSinkAccumulatesBytes(t *testing.T) {
	s := NewBuffer()
	_, err := s.Write([]byte("foo"))
	require.NoError(t, err)
	_, err = s.Write([]byte("bar"))
	require.NoError(t, err)
	require.Equal(t, "foobar", string(s.Bytes()))
}
