package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterExactByteCount(t *testing.T) {
	for _, tc := range []struct {
		kind         Kind
		pairs        int
		expectedSize int
	}{
		{Bits8, 100, 200},
		{Bits16, 100, 400},
		{Bits1, 100, 25}, // 4 pairs/byte -> 25 bytes exactly
		{Bits1, 101, 26}, // partial byte padded
	} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, tc.kind)
		require.NoError(t, err)
		for i := 0; i < tc.pairs; i++ {
			require.NoError(t, w.WritePair(1, -1))
		}
		require.NoError(t, w.Flush())
		assert.Equal(t, tc.expectedSize, buf.Len(), "kind=%v pairs=%d", tc.kind, tc.pairs)
	}
}

func TestWriterSaturates(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Bits8)
	require.NoError(t, err)
	require.NoError(t, w.WritePair(500, -500))
	require.NoError(t, w.Flush())
	b := buf.Bytes()
	assert.Equal(t, int8(127), int8(b[0]))
	assert.Equal(t, int8(-128), int8(b[1]))
}

func TestNewWriterRejectsInvalidKind(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, Kind(3))
	assert.Error(t, err)
}

func TestBits1SignEncoding(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Bits1)
	require.NoError(t, err)
	// pairs: (+,+)->11 (+,-)->10 (-,+)->01 (-,-)->00, packed MSB-first.
	require.NoError(t, w.WritePair(1, 1))
	require.NoError(t, w.WritePair(1, -1))
	require.NoError(t, w.WritePair(-1, 1))
	require.NoError(t, w.WritePair(-1, -1))
	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{0b11100100}, buf.Bytes())
}
