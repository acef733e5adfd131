package assemble

import (
	"github.com/joy-lang/joy/isa"
	"github.com/joy-lang/joy/memword"
	"github.com/joy-lang/joy/symtab"
)

// Semantic tags one byte of the assembled image.
type Semantic byte

const (
	SemUnknown Semantic = iota
	SemInstructionHead
	SemInstruction
	SemDataHead
	SemData
)

// Image is the fully assembled program: bytes, their per-byte semantic
// annotation, and the optional stack boundary committed by Pass2.
type Image struct {
	Bytes     []byte
	Semantics []Semantic
	Mode      memword.Mode

	StackBeginning *uint32
	StackEnd       *uint32

	// Symbols is the finished symbol table, exposed for -dump-symbols.
	Symbols *symtab.Table
}

// Pass2 resolves every pending instruction's argument, writes encoded
// bytes into the image, and accumulates the memory-semantic map. The
// returned map records each instruction record's resolved argument,
// keyed by its index in result.Records, for Validate to reuse.
func Pass2(result *Pass1Result, memorySize uint32, mode memword.Mode) (*Image, map[int]uint32, error) {
	img := &Image{
		Bytes:     make([]byte, memorySize),
		Semantics: make([]Semantic, memorySize),
		Mode:      mode,
		Symbols:   result.Symbols,
	}
	resolvedArgs := make(map[int]uint32)

	var memPtr uint32
	var stackEnd *uint32
	stackEndLocked := false
	haltSeen := false
	stackTouched := false

	for i, rec := range result.Records {
		if !stackEndLocked && result.StackBeginning != nil && memPtr > *result.StackBeginning {
			if rec.Kind != EmissionData {
				v := memPtr
				stackEnd = &v
				stackEndLocked = true
			}
		}

		switch rec.Kind {
		case EmissionData:
			if err := writeWord(img, memPtr, rec.Word, mode); err != nil {
				return nil, nil, err
			}
			memPtr += memword.Size

		case EmissionInstruction:
			if isa.TouchesStack(rec.Name) {
				stackTouched = true
			}
			if rec.Name == isa.HLT {
				haltSeen = true
			}

			argVal, argErr := resolveInstructionArgument(rec, result.Symbols)
			if argErr != nil {
				return nil, nil, argErr
			}
			resolvedArgs[i] = argVal

			opcode := isa.ToOpcode(rec.Name)
			if err := writeInstruction(img, memPtr, opcode, argVal, mode); err != nil {
				return nil, nil, err
			}
			memPtr += isa.EncodedSize
		}
	}

	if result.StackBeginning != nil && !stackEndLocked {
		v := memPtr
		stackEnd = &v
	}

	if !haltSeen {
		return nil, nil, NewError(Position{}, ErrorNoHaltInstruction, "no HLT instruction was emitted")
	}
	if stackTouched && result.StackBeginning == nil {
		return nil, nil, NewError(Position{}, ErrorStackUsedButUndefined,
			"a stack instruction was emitted but @stack is not defined")
	}

	img.StackBeginning = result.StackBeginning
	img.StackEnd = stackEnd
	return img, resolvedArgs, nil
}

func resolveInstructionArgument(rec Record, symbols *symtab.Table) (uint32, *Error) {
	rule := isa.Rule(rec.Name)

	if !rec.HasArg {
		switch rule.Kind {
		case isa.Forbidden:
			return 0, nil
		case isa.Required:
			return 0, NewError(rec.Pos, ErrorArgumentArityMismatch,
				"missing required argument for "+isa.ToMnemonic(rec.Name))
		case isa.OptionalWithDefault:
			return rule.Default, nil
		}
	}

	if rule.Kind == isa.Forbidden {
		return 0, NewError(rec.Pos, ErrorArgumentArityMismatch,
			isa.ToMnemonic(rec.Name)+" takes no argument")
	}

	return resolveArgument(rec.RawArg, rec.Pos, symbols)
}

func writeWord(img *Image, addr uint32, word uint32, mode memword.Mode) error {
	if addr+memword.Size > uint32(len(img.Bytes)) {
		return NewError(Position{}, ErrorStaticSemanticViolation, "data write out of bounds")
	}
	memword.Encode(img.Bytes[addr:], word, mode)
	img.Semantics[addr] = SemDataHead
	for i := uint32(1); i < memword.Size; i++ {
		img.Semantics[addr+i] = SemData
	}
	return nil
}

func writeInstruction(img *Image, addr uint32, opcode byte, arg uint32, mode memword.Mode) error {
	if addr+isa.EncodedSize > uint32(len(img.Bytes)) {
		return NewError(Position{}, ErrorStaticSemanticViolation, "instruction write out of bounds")
	}
	img.Bytes[addr] = opcode
	memword.Encode(img.Bytes[addr+1:], arg, mode)
	img.Semantics[addr] = SemInstructionHead
	for i := uint32(1); i < isa.EncodedSize; i++ {
		img.Semantics[addr+i] = SemInstruction
	}
	return nil
}
