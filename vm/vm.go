// Package vm implements the Joy virtual machine: two general-purpose
// registers, a program counter and stack counter, byte-addressable
// memory, condition flags, and a bounded call/return stack.
package vm

import (
	"bufio"
	"io"
	"os"

	"github.com/joy-lang/joy/assemble"
	"github.com/joy-lang/joy/rng"
)

// VM is one running Joy machine.
type VM struct {
	A, B uint32
	PC   uint32
	SC   uint32
	Flags

	Memory *Memory

	// StackBegin/StackEnd are the word addresses committed by the
	// assembler; nil means no stack was ever defined, and any stack
	// instruction traps.
	StackBegin *uint32
	StackEnd   *uint32

	// Mock disables PT*/GET/GTC's visible I/O; used by the memory-dump
	// front end so a run can be replayed without a terminal attached.
	Mock bool

	Out io.Writer
	In  *bufio.Reader

	rng *rng.Rng

	Halted bool
	// Cycles accumulates isa.Cost(name) for every instruction stepped,
	// for the `cycles` CLI mode's cost accounting.
	Cycles uint64
}

// New creates a VM over the given memory.
func New(memory *Memory) *VM {
	return &VM{
		Memory: memory,
		Out:    os.Stdout,
		In:     bufio.NewReader(os.Stdin),
		rng:    rng.New(),
	}
}

// NewFromImage creates a VM loaded with an assembled program image,
// inheriting its stack boundary and memory contents.
func NewFromImage(img *assemble.Image) *VM {
	mem := NewMemory(uint32(len(img.Bytes)), img.Mode)
	mem.Load(img.Bytes)

	v := New(mem)
	v.StackBegin = img.StackBeginning
	v.StackEnd = img.StackEnd
	return v
}
