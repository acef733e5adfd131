package visualize

import (
	"testing"

	"github.com/joy-lang/joy/assemble"
	"github.com/joy-lang/joy/joyconfig"
	"github.com/joy-lang/joy/memword"
	"github.com/joy-lang/joy/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T, src string) *Dashboard {
	t.Helper()
	img, err := assemble.AssembleSource(src, "test.joy", assemble.Options{MemorySize: 0x100, Mode: memword.LittleEndian})
	require.NoError(t, err)

	machine := vm.NewFromImage(img)
	cfg := joyconfig.DefaultConfig()
	return NewDashboard(machine, cfg)
}

func TestUpdateRegistersShowsCurrentState(t *testing.T) {
	d := newTestDashboard(t, "mov 7\nhlt\n")
	d.Machine.A = 7
	d.Machine.PC = 5
	d.updateRegisters()
	assert.Contains(t, d.RegisterView.GetText(true), "0x00000007")
	assert.Contains(t, d.RegisterView.GetText(true), "PC: 0x00000005")
}

func TestUpdateFlagsReflectsMachine(t *testing.T) {
	d := newTestDashboard(t, "mov 0\nhlt\n")
	_, err := d.Machine.Step()
	require.NoError(t, err)
	d.Machine.Cycles = 3
	d.updateFlags()
	assert.Contains(t, d.FlagsView.GetText(true), "Zero:     true")
	assert.Contains(t, d.FlagsView.GetText(true), "Cycles:   3")
}

func TestUpdateNextDecodesInstructionAtPC(t *testing.T) {
	d := newTestDashboard(t, "mov 9\nhlt\n")
	d.updateNext()
	assert.Contains(t, d.NextView.GetText(true), "MOV")
}

func TestFormatWordRespectsNumberFormat(t *testing.T) {
	d := newTestDashboard(t, "hlt\n")
	assert.Equal(t, "0x0000002A", d.formatWord(42))
	d.numberFormat = "dec"
	assert.Equal(t, "42", d.formatWord(42))
}

func TestUpdateMemoryHighlightsPC(t *testing.T) {
	d := newTestDashboard(t, "mov 9\nhlt\n")
	d.updateMemory()
	assert.Contains(t, d.MemoryView.GetText(true), "0x00000000:")
	assert.Contains(t, d.MemoryView.GetText(false), "[yellow]")
}

func TestAdvanceCallsStepAndHaltsOnFalse(t *testing.T) {
	d := newTestDashboard(t, "hlt\n")
	calls := 0
	d.Step = func() (bool, error) {
		calls++
		return false, nil
	}
	d.updateRegisters()
	d.updateFlags()
	d.updateNext()
	d.updateMemory()
	d.advance()
	assert.NoError(t, d.lastErr)
	assert.True(t, d.halted)
	assert.Equal(t, 1, calls)
}
