// Package isa defines the Joy instruction set: the opcode table, mnemonic
// lookup, argument-passing rules, and the category predicates the
// assembler's static validator and the VM's executor both depend on.
package isa

import "strings"

// Word is an unsigned 32-bit machine word.
type Word = uint32

// Name identifies one of the 49 enumerated Joy mnemonics. Its zero value,
// NOP, is also opcode 0.
type Name int

// Canonical enumeration order. Opcode assignment is purely positional:
// the opcode of a Name is its index in this list.
const (
	NOP Name = iota
	LDA
	LDB
	STA
	STB
	LIA
	SIA
	LPC
	SPC
	LYA
	SYA
	JMP
	JZ
	JNZ
	JN
	JNN
	JE
	JNE
	JP
	JNP
	CAL
	RET
	PSH
	POP
	LSA
	SSA
	LSC
	SSC
	MOV
	NOT
	NEG
	SHL
	SHR
	INC
	DEC
	SWP
	AND
	OR
	XOR
	ADD
	SUB
	PTU
	PTS
	PTB
	PTC
	GET
	GTC
	RND
	HLT

	numNames
)

// ArgRuleKind distinguishes the three possible shapes an instruction's
// argument can take. Represented as a closed sum type (ArgRule below)
// rather than an (optional bool, required bool) pair, so that an
// instruction can never claim to be simultaneously forbidden and required.
type ArgRuleKind int

const (
	// Forbidden means the instruction must not be given an argument in
	// source form; its encoded argument is always 0.
	Forbidden ArgRuleKind = iota
	// Required means an argument must be supplied in source form.
	Required
	// OptionalWithDefault means an argument may be omitted, in which case
	// Default is used.
	OptionalWithDefault
)

// ArgRule captures whether and how an instruction accepts an argument.
type ArgRule struct {
	Kind    ArgRuleKind
	Default Word // only meaningful when Kind == OptionalWithDefault
}

func forbidden() ArgRule                { return ArgRule{Kind: Forbidden} }
func required() ArgRule                 { return ArgRule{Kind: Required} }
func optionalDefault(d Word) ArgRule    { return ArgRule{Kind: OptionalWithDefault, Default: d} }

// Definition is the compile-time-constant description of one instruction.
type Definition struct {
	Present  bool
	Name     Name
	Mnemonic string
	ArgRule  ArgRule
	Cost     int // micro-instruction weight, >= 1; stats only
}

// byOpcode is the 256-entry table, indexed by opcode. Slots past numNames
// are left with Present == false.
var byOpcode [256]Definition

// byName mirrors byOpcode but indexed by Name, for convenient reverse
// lookups without scanning.
var byName [numNames]Definition

// byMnemonic supports case-insensitive mnemonic lookup.
var byMnemonic map[string]Name

func def(name Name, mnemonic string, rule ArgRule, cost int) Definition {
	return Definition{Present: true, Name: name, Mnemonic: mnemonic, ArgRule: rule, Cost: cost}
}

func init() {
	defs := []Definition{
		def(NOP, "NOP", forbidden(), 1),
		def(LDA, "LDA", required(), 2),
		def(LDB, "LDB", required(), 2),
		def(STA, "STA", required(), 2),
		def(STB, "STB", required(), 2),
		def(LIA, "LIA", required(), 2),
		def(SIA, "SIA", required(), 2),
		def(LPC, "LPC", forbidden(), 1),
		def(SPC, "SPC", forbidden(), 1),
		def(LYA, "LYA", required(), 2),
		def(SYA, "SYA", required(), 2),
		def(JMP, "JMP", required(), 1),
		def(JZ, "JZ", required(), 1),
		def(JNZ, "JNZ", required(), 1),
		def(JN, "JN", required(), 1),
		def(JNN, "JNN", required(), 1),
		def(JE, "JE", required(), 1),
		def(JNE, "JNE", required(), 1),
		def(JP, "JP", required(), 1),
		def(JNP, "JNP", required(), 1),
		def(CAL, "CAL", required(), 3),
		def(RET, "RET", forbidden(), 3),
		def(PSH, "PSH", forbidden(), 2),
		def(POP, "POP", forbidden(), 2),
		def(LSA, "LSA", required(), 2),
		def(SSA, "SSA", required(), 2),
		def(LSC, "LSC", forbidden(), 1),
		def(SSC, "SSC", forbidden(), 1),
		def(MOV, "MOV", required(), 1),
		def(NOT, "NOT", forbidden(), 1),
		def(NEG, "NEG", forbidden(), 1),
		def(SHL, "SHL", optionalDefault(1), 1),
		def(SHR, "SHR", optionalDefault(1), 1),
		def(INC, "INC", optionalDefault(1), 1),
		def(DEC, "DEC", optionalDefault(1), 1),
		def(SWP, "SWP", forbidden(), 1),
		def(AND, "AND", forbidden(), 1),
		def(OR, "OR", forbidden(), 1),
		def(XOR, "XOR", forbidden(), 1),
		def(ADD, "ADD", forbidden(), 1),
		def(SUB, "SUB", forbidden(), 1),
		def(PTU, "PTU", forbidden(), 4),
		def(PTS, "PTS", forbidden(), 4),
		def(PTB, "PTB", forbidden(), 4),
		def(PTC, "PTC", forbidden(), 4),
		def(GET, "GET", forbidden(), 4),
		def(GTC, "GTC", forbidden(), 4),
		def(RND, "RND", forbidden(), 2),
		def(HLT, "HLT", forbidden(), 1),
	}

	if len(defs) != int(numNames) {
		panic("isa: instruction table does not cover every enumerated name")
	}

	byMnemonic = make(map[string]Name, len(defs))
	for opcode, d := range defs {
		byOpcode[opcode] = d
		byName[d.Name] = d
		byMnemonic[d.Mnemonic] = d.Name
	}
}

// FromOpcode returns the instruction assigned to the given opcode byte, if
// any opcode in [0,255] is mapped.
func FromOpcode(op byte) (Name, bool) {
	d := byOpcode[op]
	if !d.Present {
		return 0, false
	}
	return d.Name, true
}

// ToOpcode returns the single byte value assigned to name.
func ToOpcode(name Name) byte {
	for opcode, d := range byOpcode {
		if d.Present && d.Name == name {
			return byte(opcode)
		}
	}
	return 0
}

// ToMnemonic returns the upper-case mnemonic for name.
func ToMnemonic(name Name) string {
	return byName[name].Mnemonic
}

// FromMnemonic performs a case-insensitive mnemonic lookup.
func FromMnemonic(s string) (Name, bool) {
	name, ok := byMnemonic[strings.ToUpper(s)]
	return name, ok
}

// Rule returns the argument-passing rule for name.
func Rule(name Name) ArgRule {
	return byName[name].ArgRule
}

// Cost returns the micro-instruction weight for name.
func Cost(name Name) int {
	return byName[name].Cost
}

// Definitions returns every present instruction definition, ordered by
// opcode, as a stable listing.
func Definitions() []Definition {
	out := make([]Definition, 0, numNames)
	for _, d := range byOpcode {
		if d.Present {
			out = append(out, d)
		}
	}
	return out
}

var stackTouching = map[Name]bool{
	CAL: true, RET: true, PSH: true, POP: true, LSA: true, SSA: true, LSC: true, SSC: true,
}

var wordData = map[Name]bool{LDA: true, LDB: true, STA: true, STB: true}

var byteData = map[Name]bool{LYA: true, SYA: true}

var instructionPointer = map[Name]bool{
	JMP: true, JN: true, JNN: true, JZ: true, JNZ: true, JP: true, JNP: true, JE: true, JNE: true,
}

// TouchesStack reports whether name reads or writes the call/return stack.
func TouchesStack(name Name) bool { return stackTouching[name] }

// PointsAtWordData reports whether name's argument must address a 4-byte
// data word.
func PointsAtWordData(name Name) bool { return wordData[name] }

// PointsAtByteData reports whether name's argument must address a data byte.
func PointsAtByteData(name Name) bool { return byteData[name] }

// PointsAtInstruction reports whether name's argument must address the
// head of a 5-byte instruction.
func PointsAtInstruction(name Name) bool { return instructionPointer[name] }

// EncodedSize is the fixed byte length of an encoded instruction: 1 opcode
// byte plus 4 argument bytes.
const EncodedSize = 5
