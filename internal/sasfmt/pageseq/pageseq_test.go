package pageseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequenceInitial(t *testing.T) {
	s := New()
	require.Equal(t, Initial, s.Initial())
	require.Equal(t, Initial, s.Current())
}

func TestSequenceNibbleCycle(t *testing.T) {
	s := New()
	wantLowNibbles := []uint32{7, 4, 5, 2, 3, 0, 1, 0xE, 0xF, 0xC, 0xD, 0xA, 0xB, 8, 9, 6}
	for i, want := range wantLowNibbles {
		v, err := s.Increment()
		require.NoError(t, err)
		require.Equalf(t, want, v&0xF, "step %d", i)
	}
	// After 16 increments the low nibble is back at 6 and the byte above
	// has decremented by one.
	require.Equal(t, Initial-0x100, s.Current())
}

func TestSequenceExhaustion(t *testing.T) {
	s := New()
	for i := 0; i < maxIncrements; i++ {
		_, err := s.Increment()
		require.NoError(t, err)
	}
	_, err := s.Increment()
	require.Error(t, err)
}
