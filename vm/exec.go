package vm

import (
	"fmt"
	"strings"

	"github.com/joy-lang/joy/isa"
	"github.com/joy-lang/joy/lexer"
	"github.com/joy-lang/joy/textcodec"
)

// Step executes one fetch/decode/execute cycle. It returns (true, nil)
// to continue, (false, nil) after HLT, and (false, trap) when a trap
// fired mid-step.
func (v *VM) Step() (bool, error) {
	if v.Halted {
		return false, nil
	}

	opcodeByte, tr := v.Memory.ReadByte(v.PC)
	if tr != nil {
		v.Halted = true
		return false, tr
	}
	name, ok := isa.FromOpcode(opcodeByte)
	if !ok {
		v.Halted = true
		return false, trap(TrapUnknownOpcode,
			"failed to fetch next instruction at 0x%08X (opcode 0x%02X)", v.PC, opcodeByte)
	}
	argv, tr := v.Memory.ReadWord(v.PC + 1)
	if tr != nil {
		v.Halted = true
		return false, tr
	}
	v.PC += isa.EncodedSize
	v.Cycles += uint64(isa.Cost(name))

	cont, stepTrap := v.execute(name, argv)

	v.Flags = computeFlags(v.A)
	if stepTrap != nil {
		v.Halted = true
		return false, stepTrap
	}
	if !cont {
		v.Halted = true
	}
	return cont, nil
}

// Run steps until halt, a trap, or maxCycles is exceeded (0 means
// unbounded). It returns the trap, if any, that ended execution.
func (v *VM) Run(maxCycles uint64) error {
	for {
		cont, err := v.Step()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		if maxCycles != 0 && v.Cycles >= maxCycles {
			return trap(TrapUnknownOpcode, "exceeded max_cycles (%d)", maxCycles)
		}
	}
}

func (v *VM) execute(name isa.Name, argv uint32) (bool, *Trap) {
	switch name {
	case isa.NOP:

	case isa.LDA:
		word, tr := v.Memory.ReadWord(argv)
		if tr != nil {
			return true, tr
		}
		v.A = word
	case isa.LDB:
		word, tr := v.Memory.ReadWord(argv)
		if tr != nil {
			return true, tr
		}
		v.B = word
	case isa.STA:
		if tr := v.Memory.WriteWord(argv, v.A); tr != nil {
			return true, tr
		}
	case isa.STB:
		if tr := v.Memory.WriteWord(argv, v.B); tr != nil {
			return true, tr
		}

	case isa.LIA:
		word, tr := v.Memory.ReadWord(v.B + argv)
		if tr != nil {
			return true, tr
		}
		v.A = word
	case isa.SIA:
		if tr := v.Memory.WriteWord(v.B+argv, v.A); tr != nil {
			return true, tr
		}

	case isa.LPC:
		v.PC = v.A
	case isa.SPC:
		v.A = v.PC

	case isa.LYA:
		b, tr := v.Memory.ReadByte(argv)
		if tr != nil {
			return true, tr
		}
		v.A = (v.A & 0xFFFFFF00) | uint32(b)
	case isa.SYA:
		if tr := v.Memory.WriteByte(argv, byte(v.A)); tr != nil {
			return true, tr
		}

	case isa.JMP:
		v.PC = argv
	case isa.JZ:
		if v.Flags.Zero {
			v.PC = argv
		}
	case isa.JNZ:
		if !v.Flags.Zero {
			v.PC = argv
		}
	case isa.JN:
		if v.Flags.Negative {
			v.PC = argv
		}
	case isa.JNN:
		if !v.Flags.Negative {
			v.PC = argv
		}
	case isa.JE:
		if v.Flags.Even {
			v.PC = argv
		}
	case isa.JNE:
		if !v.Flags.Even {
			v.PC = argv
		}
	case isa.JP:
		if !v.Flags.Negative && !v.Flags.Zero {
			v.PC = argv
		}
	case isa.JNP:
		if v.Flags.Negative || v.Flags.Zero {
			v.PC = argv
		}

	case isa.CAL:
		if tr := v.stackWrite(v.SC, v.PC); tr != nil {
			return true, tr
		}
		v.SC += 4
		v.PC = argv
	case isa.RET:
		v.SC -= 4
		word, tr := v.stackRead(v.SC)
		if tr != nil {
			return true, tr
		}
		v.PC = word
	case isa.PSH:
		if tr := v.stackWrite(v.SC, v.A); tr != nil {
			return true, tr
		}
		v.SC += 4
	case isa.POP:
		v.SC -= 4
		word, tr := v.stackRead(v.SC)
		if tr != nil {
			return true, tr
		}
		v.A = word
	case isa.LSA:
		word, tr := v.stackRead(v.SC + argv)
		if tr != nil {
			return true, tr
		}
		v.A = word
	case isa.SSA:
		if tr := v.stackWrite(v.SC+argv, v.A); tr != nil {
			return true, tr
		}
	case isa.LSC:
		v.SC = v.A
	case isa.SSC:
		v.A = v.SC

	case isa.MOV:
		v.A = argv
	case isa.NOT:
		v.A = ^v.A
	case isa.NEG:
		v.A = uint32(-int32(v.A))
	case isa.SHL:
		v.A <<= argv
	case isa.SHR:
		v.A >>= argv
	case isa.INC:
		v.A += argv
	case isa.DEC:
		v.A -= argv
	case isa.SWP:
		v.A, v.B = v.B, v.A
	case isa.AND:
		v.A &= v.B
	case isa.OR:
		v.A |= v.B
	case isa.XOR:
		v.A ^= v.B
	case isa.ADD:
		v.A += v.B
	case isa.SUB:
		v.A -= v.B

	case isa.PTU:
		if !v.Mock {
			fmt.Fprintf(v.Out, "%d\n", v.A)
		}
	case isa.PTS:
		if !v.Mock {
			fmt.Fprintf(v.Out, "%d\n", int32(v.A))
		}
	case isa.PTB:
		if !v.Mock {
			fmt.Fprintf(v.Out, "0b%032b\n", v.A)
		}
	case isa.PTC:
		if !v.Mock {
			fmt.Fprint(v.Out, textcodec.EncodeString(rune(v.A)))
		}
	case isa.GET:
		if v.Mock {
			v.A = 0
			break
		}
		for {
			line, err := v.In.ReadString('\n')
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				if n, perr := lexer.ParseIntegerLiteral(trimmed); perr == nil {
					v.A = n
					break
				}
			}
			if err != nil {
				v.A = 0
				break
			}
		}
	case isa.GTC:
		if v.Mock {
			v.A = 0
			break
		}
		var buf [4]byte
		n, _ := v.In.Read(buf[:1])
		if n == 0 {
			v.A = 0
			break
		}
		extra := textcodec.SequenceLength(buf[0])
		if extra > 1 {
			_, _ = v.In.Read(buf[1:extra])
		}
		codepoints, _ := textcodec.DecodeAll(buf[:extra])
		if len(codepoints) > 0 {
			v.A = uint32(codepoints[0])
		}

	case isa.RND:
		v.A = v.rng.Uniform(v.A)

	case isa.HLT:
		return false, nil
	}

	return true, nil
}

func (v *VM) stackRead(addr uint32) (uint32, *Trap) {
	if v.StackBegin == nil || v.StackEnd == nil {
		return 0, trap(TrapStackBoundariesUndefined, "stack access with no stack boundaries defined")
	}
	if addr < *v.StackBegin {
		return 0, trap(TrapStackUnderflow, "stack underflow at 0x%08X", addr)
	}
	if addr+4 > *v.StackEnd {
		return 0, trap(TrapStackOverflow, "stack overflow at 0x%08X", addr)
	}
	if (addr-*v.StackBegin)%4 != 0 {
		return 0, trap(TrapStackMisalignment, "misaligned stack access at 0x%08X", addr)
	}
	return v.Memory.ReadWord(addr)
}

func (v *VM) stackWrite(addr uint32, value uint32) *Trap {
	if v.StackBegin == nil || v.StackEnd == nil {
		return trap(TrapStackBoundariesUndefined, "stack access with no stack boundaries defined")
	}
	if addr < *v.StackBegin {
		return trap(TrapStackUnderflow, "stack underflow at 0x%08X", addr)
	}
	if addr+4 > *v.StackEnd {
		return trap(TrapStackOverflow, "stack overflow at 0x%08X", addr)
	}
	if (addr-*v.StackBegin)%4 != 0 {
		return trap(TrapStackMisalignment, "misaligned stack access at 0x%08X", addr)
	}
	return v.Memory.WriteWord(addr, value)
}
