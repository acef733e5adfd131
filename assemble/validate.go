package assemble

import (
	"fmt"

	"github.com/joy-lang/joy/isa"
)

// Validate walks every emitted instruction against the image's
// memory-semantic map. It requires the same record stream Pass2
// consumed, since the image alone does not retain each instruction's
// source position or resolved argument.
func Validate(img *Image, records []Record, resolvedArgs map[int]uint32) error {
	var memPtr uint32
	for i, rec := range records {
		switch rec.Kind {
		case EmissionData:
			memPtr += 4
			continue

		case EmissionInstruction:
			argv, ok := resolvedArgs[i]
			if !ok {
				memPtr += isa.EncodedSize
				continue
			}

			if err := validateInstructionArgument(img, rec, argv); err != nil {
				return err
			}
			memPtr += isa.EncodedSize
		}
	}
	return nil
}

func validateInstructionArgument(img *Image, rec Record, argv uint32) error {
	name := rec.Name
	size := uint32(len(img.Bytes))

	switch {
	case isa.PointsAtWordData(name):
		if argv+4 > size {
			return staticViolation(rec, "argument out of bounds")
		}
		if img.Semantics[argv] != SemDataHead ||
			img.Semantics[argv+1] != SemData ||
			img.Semantics[argv+2] != SemData ||
			img.Semantics[argv+3] != SemData {
			return staticViolation(rec, "argument does not address a data word")
		}

	case isa.PointsAtByteData(name):
		if argv >= size {
			return staticViolation(rec, "argument out of bounds")
		}
		if img.Semantics[argv] != SemDataHead && img.Semantics[argv] != SemData {
			return staticViolation(rec, "argument does not address data")
		}

	case isa.PointsAtInstruction(name):
		if argv+isa.EncodedSize > size {
			return staticViolation(rec, "argument out of bounds")
		}
		if img.Semantics[argv] != SemInstructionHead ||
			img.Semantics[argv+1] != SemInstruction ||
			img.Semantics[argv+2] != SemInstruction ||
			img.Semantics[argv+3] != SemInstruction ||
			img.Semantics[argv+4] != SemInstruction {
			return staticViolation(rec, "argument does not address an instruction")
		}
	}
	return nil
}

func staticViolation(rec Record, message string) *Error {
	return NewError(rec.Pos, ErrorStaticSemanticViolation,
		fmt.Sprintf("%s: %s", isa.ToMnemonic(rec.Name), message))
}
