package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsCommentsAndCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "mov 0x2a", Normalize("   mov    0x2a   ; load the answer"))
	assert.Equal(t, "", Normalize("   ; just a comment"))
}

func TestClassifyDefinition(t *testing.T) {
	line, ok, err := Classify("width := 0x10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindDefinition, line.Kind)
	assert.Equal(t, "width", line.Ident)
	assert.Equal(t, "0x10", line.Value)
}

func TestClassifyLabel(t *testing.T) {
	line, ok, err := Classify("loop:")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindLabel, line.Kind)
	assert.Equal(t, "loop", line.Ident)
}

func TestClassifyInstructionWithAndWithoutArg(t *testing.T) {
	line, ok, err := Classify("mov 0x2a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindInstruction, line.Kind)
	assert.Equal(t, "mov", line.Mnemonic)
	assert.True(t, line.HasArg)
	assert.Equal(t, "0x2a", line.Arg)

	line, ok, err = Classify("hlt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hlt", line.Mnemonic)
	assert.False(t, line.HasArg)
}

func TestClassifyInclude(t *testing.T) {
	line, ok, err := Classify(`include "lib/util.joy"`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindInclude, line.Kind)
	assert.Equal(t, "lib/util.joy", line.Path)
}

func TestClassifyBlankLineIsSkipped(t *testing.T) {
	_, ok, err := Classify("   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifyIncomprehensibleLine(t *testing.T) {
	_, _, err := Classify("1nvalid := oops")
	assert.Error(t, err)
}

func TestClassifyDataDirectiveMixedElements(t *testing.T) {
	line, ok, err := Classify(`data "hi", [4] 0, unif 10, [2] unif 5`)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindData, line.Kind)
	require.Len(t, line.Elements, 4)

	assert.True(t, line.Elements[0].IsString)
	assert.Equal(t, []rune("hi"), line.Elements[0].Codepoints)

	assert.Equal(t, uint32(4), line.Elements[1].Size)
	assert.Equal(t, "0", line.Elements[1].Value)

	assert.Equal(t, uint32(1), line.Elements[2].Size)
	assert.True(t, line.Elements[2].IsUnif)
	assert.Equal(t, "10", line.Elements[2].UnifMax)

	assert.Equal(t, uint32(2), line.Elements[3].Size)
	assert.True(t, line.Elements[3].IsUnif)
	assert.Equal(t, "5", line.Elements[3].UnifMax)
}

func TestClassifyDataDirectiveDefaultsSizeAndValue(t *testing.T) {
	line, ok, err := Classify("data [3]")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, line.Elements, 1)
	assert.Equal(t, uint32(3), line.Elements[0].Size)
	assert.Equal(t, "0", line.Elements[0].Value)
}

func TestDecodeStringLiteralHandlesEscapes(t *testing.T) {
	codepoints, err := DecodeStringLiteral(`"a\nb☃"`)
	require.NoError(t, err)
	assert.Equal(t, []rune{'a', '\n', 'b', 0x2603}, codepoints)
}

func TestDecodeStringLiteralUnknownEscapePassesThrough(t *testing.T) {
	codepoints, err := DecodeStringLiteral(`"\1"`)
	require.NoError(t, err)
	assert.Equal(t, []rune{'1'}, codepoints)
}

func TestParseCharLiteral(t *testing.T) {
	r, err := ParseCharLiteral("'x'")
	require.NoError(t, err)
	assert.Equal(t, 'x', r)

	_, err = ParseCharLiteral("'ab'")
	assert.Error(t, err)
}

func TestParseIntegerLiteralBases(t *testing.T) {
	v, err := ParseIntegerLiteral("0x2a")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	v, err = ParseIntegerLiteral("0b101")
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)

	v, err = ParseIntegerLiteral("-1")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), v)

	v, err = ParseIntegerLiteral("+7")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)
}

func TestParseIntegerLiteralRejectsOutOfRange(t *testing.T) {
	_, err := ParseIntegerLiteral("0x100000000")
	assert.Error(t, err)
	_, err = ParseIntegerLiteral("99999999999")
	assert.Error(t, err)
}
