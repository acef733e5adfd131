package textcodec

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAllASCII(t *testing.T) {
	runes, errored := DecodeAll([]byte("hello"))
	require.False(t, errored)
	assert.Equal(t, []rune("hello"), runes)
}

func TestDecodeAllMultiByte(t *testing.T) {
	// snowman, U+2603, encodes to 3 bytes
	buf := []byte{0xE2, 0x98, 0x83}
	runes, errored := DecodeAll(buf)
	require.False(t, errored)
	require.Len(t, runes, 1)
	assert.Equal(t, rune(0x2603), runes[0])
}

func TestDecodeRejectsOverlong(t *testing.T) {
	// 0xC0 0x80 is an overlong 2-byte encoding of NUL; must be rejected.
	runes, errored := DecodeAll([]byte{0xC0, 0x80})
	assert.True(t, errored)
	require.Len(t, runes, 1)
	assert.Equal(t, ReplacementRune, runes[0])
}

func TestDecodeRejectsTruncatedSequence(t *testing.T) {
	runes, errored := DecodeAll([]byte{0xE2, 0x98})
	assert.True(t, errored)
	require.Len(t, runes, 1)
	assert.Equal(t, ReplacementRune, runes[0])
}

func TestDecodeRejectsSurrogate(t *testing.T) {
	// 0xED 0xA0 0x80 would decode to U+D800, a surrogate.
	runes, errored := DecodeAll([]byte{0xED, 0xA0, 0x80})
	assert.True(t, errored)
	require.Len(t, runes, 1)
	assert.Equal(t, ReplacementRune, runes[0])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, r := range []rune{'a', '0', 0x2603, 0x1F600, 0x7FF, 0x800, 0xFFFF, 0x10000, MaxRune} {
		encoded := Encode(nil, r)
		assert.True(t, utf8.Valid(encoded), "encode(%U) produced invalid utf8", r)

		runes, errored := DecodeAll(encoded)
		require.False(t, errored)
		require.Len(t, runes, 1)
		assert.Equal(t, r, runes[0])
	}
}

func TestSequenceLength(t *testing.T) {
	assert.Equal(t, 1, SequenceLength('a'))
	assert.Equal(t, 2, SequenceLength(0xC2))
	assert.Equal(t, 3, SequenceLength(0xE2))
	assert.Equal(t, 4, SequenceLength(0xF0))
	assert.Equal(t, 1, SequenceLength(0x80)) // stray continuation byte
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	s := EncodeString(MaxRune + 1)
	runes, errored := DecodeAll([]byte(s))
	require.False(t, errored)
	require.Len(t, runes, 1)
	assert.Equal(t, ReplacementRune, runes[0])
}
