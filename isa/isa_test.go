package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeRoundTrip(t *testing.T) {
	for opcode := 0; opcode < 256; opcode++ {
		name, ok := FromOpcode(byte(opcode))
		if !ok {
			continue
		}
		assert.Equal(t, byte(opcode), ToOpcode(name), "opcode %d does not round-trip", opcode)
	}
}

func TestEveryNameHasUniqueOpcode(t *testing.T) {
	seen := map[byte]Name{}
	for _, d := range Definitions() {
		opcode := ToOpcode(d.Name)
		if existing, ok := seen[opcode]; ok {
			t.Fatalf("opcode %d assigned to both %v and %v", opcode, existing, d.Name)
		}
		seen[opcode] = d.Name
	}
	assert.Equal(t, int(numNames), len(seen))
}

func TestFromMnemonicCaseInsensitive(t *testing.T) {
	name, ok := FromMnemonic("hlt")
	require.True(t, ok)
	assert.Equal(t, HLT, name)

	name, ok = FromMnemonic("Mov")
	require.True(t, ok)
	assert.Equal(t, MOV, name)

	_, ok = FromMnemonic("nope")
	assert.False(t, ok)
}

func TestArgRuleShapes(t *testing.T) {
	assert.Equal(t, Required, Rule(LDA).Kind)
	assert.Equal(t, Forbidden, Rule(HLT).Kind)

	shl := Rule(SHL)
	require.Equal(t, OptionalWithDefault, shl.Kind)
	assert.Equal(t, Word(1), shl.Default)
}

func TestCategoryPredicates(t *testing.T) {
	assert.True(t, TouchesStack(CAL))
	assert.True(t, TouchesStack(LSC))
	assert.False(t, TouchesStack(MOV))

	assert.True(t, PointsAtWordData(LDA))
	assert.False(t, PointsAtWordData(LYA))

	assert.True(t, PointsAtByteData(LYA))
	assert.True(t, PointsAtInstruction(JMP))
	assert.False(t, PointsAtInstruction(LDA))
}

func TestHaltIsLastEnumerated(t *testing.T) {
	// NOP is required to sort first and HLT last in canonical order.
	assert.Equal(t, byte(0), ToOpcode(NOP))
	assert.Equal(t, byte(numNames-1), ToOpcode(HLT))
}
