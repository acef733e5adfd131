package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joy-lang/joy/isa"
	"github.com/joy-lang/joy/lexer"
	"github.com/joy-lang/joy/rng"
	"github.com/joy-lang/joy/symtab"
)

// EmissionKind tags a Pass1 Record as a data word or a not-yet-resolved
// instruction.
type EmissionKind int

const (
	EmissionData EmissionKind = iota
	EmissionInstruction
)

// Record is one entry of the flat stream Pass1 produces. A Data record
// already holds its final word; a PendingInstruction record defers
// argument resolution to Pass2.
type Record struct {
	Kind EmissionKind
	Pos  Position

	// EmissionData
	Word uint32

	// EmissionInstruction
	Name   isa.Name
	RawArg string
	HasArg bool
}

// Pass1Result is everything Pass2 needs to finish assembly.
type Pass1Result struct {
	Records        []Record
	Symbols        *symtab.Table
	StackBeginning *uint32
}

// Pass1 runs AssemblerPass1 over the file at path, threading memPtr and
// the symbol table through recursively included files.
type Pass1 struct {
	symbols        *symtab.Table
	records        []Record
	memPtr         uint32
	stackBeginning *uint32
	// visited holds every absolute path parsed so far, for the whole
	// assembly run; it is never shrunk, so re-including a file anywhere
	// (not just among its own ancestors) is rejected.
	visited map[string]bool
	// unifGen is the `data … unif` RNG, seeded from OS entropy lazily on
	// the first unif sample drawn in this assembly run.
	unifGen *rng.Rng
}

// NewPass1 creates a Pass1 driver with a fresh symbol table and a
// `unif`-sampling RNG seeded from OS entropy on first use.
func NewPass1() *Pass1 {
	return &Pass1{
		symbols: symtab.New(),
		visited: make(map[string]bool),
	}
}

// NewPass1Seeded creates a Pass1 driver whose `unif`-sampling RNG is
// seeded deterministically, so assembling the same source twice yields
// byte-identical images.
func NewPass1Seeded(seed uint64) *Pass1 {
	return &Pass1{
		symbols: symtab.New(),
		visited: make(map[string]bool),
		unifGen: rng.NewSeeded(seed),
	}
}

// Run parses path and every file it transitively includes, returning the
// accumulated emission stream and symbol table.
func (p *Pass1) Run(path string) (*Pass1Result, error) {
	if err := p.parseFile(path); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

// RunSource parses already-in-memory source text as if it were the file
// named filename (includes it references are still read from disk). Used
// by tests and any caller that already has the source loaded.
func (p *Pass1) RunSource(source, filename string) (*Pass1Result, error) {
	if err := p.parseContent(source, filename); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

func (p *Pass1) finish() *Pass1Result {
	return &Pass1Result{
		Records:        p.records,
		Symbols:        p.symbols,
		StackBeginning: p.stackBeginning,
	}
}

func (p *Pass1) parseFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return NewError(Position{Filename: path}, ErrorSourceNotReadable, err.Error())
	}
	if p.visited[absPath] {
		return NewError(Position{Filename: path}, ErrorRecursiveInclude,
			fmt.Sprintf("recursive include of %s", absPath))
	}
	p.visited[absPath] = true

	content, err := os.ReadFile(absPath) // #nosec G304 -- path comes from the program's own include directives
	if err != nil {
		return NewError(Position{Filename: path}, ErrorSourceNotReadable, err.Error())
	}

	return p.parseContent(string(content), path)
}

func (p *Pass1) parseContent(content, filename string) error {
	lineNum := 0
	start := 0
	for i := 0; i <= len(content); i++ {
		if i < len(content) && content[i] != '\n' {
			continue
		}
		lineNum++
		raw := content[start:i]
		start = i + 1

		pos := Position{Filename: filename, Line: lineNum}
		line, ok, err := lexer.Classify(raw)
		if err != nil {
			return NewErrorWithContext(pos, ErrorIncomprehensibleLine, err.Error(), raw)
		}
		if !ok {
			continue
		}

		if err := p.emit(line, pos, filename); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass1) emit(line lexer.Line, pos Position, filename string) error {
	switch line.Kind {
	case lexer.KindDefinition:
		if err := p.symbols.Define(line.Ident, line.Value); err != nil {
			return NewErrorWithContext(pos, ErrorDuplicateDefinition, err.Error(), line.Ident)
		}
		return nil

	case lexer.KindLabel:
		if err := p.symbols.DefineLabel(line.Ident, p.memPtr); err != nil {
			return NewErrorWithContext(pos, ErrorDuplicateDefinition, err.Error(), line.Ident)
		}
		if line.Ident == "stack" && p.stackBeginning == nil {
			addr := p.memPtr
			p.stackBeginning = &addr
		}
		return nil

	case lexer.KindData:
		return p.emitData(line, pos)

	case lexer.KindInclude:
		includePath := filepath.Join(filepath.Dir(filename), line.Path)
		return p.parseFile(includePath)

	case lexer.KindInstruction:
		name, ok := isa.FromMnemonic(line.Mnemonic)
		if !ok {
			return NewErrorWithContext(pos, ErrorIncomprehensibleLine,
				fmt.Sprintf("unknown mnemonic %q", line.Mnemonic), line.Mnemonic)
		}
		p.records = append(p.records, Record{
			Kind: EmissionInstruction, Pos: pos,
			Name: name, RawArg: line.Arg, HasArg: line.HasArg,
		})
		p.memPtr += isa.EncodedSize
		return nil
	}
	return nil
}

func (p *Pass1) emitData(line lexer.Line, pos Position) error {
	for _, elt := range line.Elements {
		if elt.IsString {
			for _, r := range elt.Codepoints {
				p.records = append(p.records, Record{Kind: EmissionData, Pos: pos, Word: uint32(r)})
				p.memPtr += 4
			}
			continue
		}

		if elt.IsUnif {
			maxVal, err := resolveArgument(elt.UnifMax, pos, p.symbols)
			if err != nil {
				return err
			}
			if p.unifGen == nil {
				p.unifGen = rng.New()
			}
			for i := uint32(0); i < elt.Size; i++ {
				p.records = append(p.records, Record{Kind: EmissionData, Pos: pos, Word: p.unifGen.Uniform(maxVal)})
				p.memPtr += 4
			}
			continue
		}

		value, err := resolveArgument(elt.Value, pos, p.symbols)
		if err != nil {
			return err
		}
		for i := uint32(0); i < elt.Size; i++ {
			p.records = append(p.records, Record{Kind: EmissionData, Pos: pos, Word: value})
			p.memPtr += 4
		}
	}
	return nil
}
