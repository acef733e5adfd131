package vm

import "github.com/joy-lang/joy/memword"

// Memory is Joy's flat, byte-addressable address space: a single
// contiguous region with no code/data segmentation, so any out-of-range
// access is always a trap, never a permission violation.
type Memory struct {
	bytes []byte
	mode  memword.Mode
}

// NewMemory creates a zeroed memory of the given size.
func NewMemory(size uint32, mode memword.Mode) *Memory {
	return &Memory{bytes: make([]byte, size), mode: mode}
}

// Size returns the memory's total byte length.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

// Load copies an assembled image's bytes in directly, replacing the
// memory's contents.
func (m *Memory) Load(bytes []byte) {
	copy(m.bytes, bytes)
}

// ReadByte reads one byte; out-of-range addresses trap.
func (m *Memory) ReadByte(addr uint32) (byte, *Trap) {
	if addr >= uint32(len(m.bytes)) {
		return 0, trap(TrapMemoryOutOfBounds, "byte read out of bounds at 0x%08X", addr)
	}
	return m.bytes[addr], nil
}

// WriteByte writes one byte; out-of-range addresses trap.
func (m *Memory) WriteByte(addr uint32, value byte) *Trap {
	if addr >= uint32(len(m.bytes)) {
		return trap(TrapMemoryOutOfBounds, "byte write out of bounds at 0x%08X", addr)
	}
	m.bytes[addr] = value
	return nil
}

// ReadWord reads a 4-byte word in the memory's configured byte order;
// out-of-range addresses trap. Joy imposes no alignment requirement on
// ordinary word access (only stack slots are alignment-checked).
func (m *Memory) ReadWord(addr uint32) (uint32, *Trap) {
	if addr+memword.Size > uint32(len(m.bytes)) {
		return 0, trap(TrapMemoryOutOfBounds, "word read out of bounds at 0x%08X", addr)
	}
	return memword.Decode(m.bytes[addr:], m.mode), nil
}

// WriteWord writes a 4-byte word; out-of-range addresses trap.
func (m *Memory) WriteWord(addr uint32, value uint32) *Trap {
	if addr+memword.Size > uint32(len(m.bytes)) {
		return trap(TrapMemoryOutOfBounds, "word write out of bounds at 0x%08X", addr)
	}
	memword.Encode(m.bytes[addr:], value, m.mode)
	return nil
}
