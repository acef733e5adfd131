package assemble

import "github.com/joy-lang/joy/memword"

// Options configures one assembly run.
type Options struct {
	MemorySize uint32
	Mode       memword.Mode
	// RNGSeed, when non-nil, seeds the `unif` generator deterministically
	// instead of from OS entropy, so assembling the same source twice
	// yields byte-identical images.
	RNGSeed *uint64
}

// Assemble runs the full pipeline (Pass1, Pass2, and the static
// validator) over the file at path, returning the finished image.
func Assemble(path string, opts Options) (*Image, error) {
	return run(opts, func(p1 *Pass1) (*Pass1Result, error) {
		return p1.Run(path)
	})
}

// AssembleSource is Assemble for already-in-memory source text, named
// filename for diagnostics (any include directive it contains is still
// resolved relative to filename on disk).
func AssembleSource(source, filename string, opts Options) (*Image, error) {
	return run(opts, func(p1 *Pass1) (*Pass1Result, error) {
		return p1.RunSource(source, filename)
	})
}

func run(opts Options, parse func(*Pass1) (*Pass1Result, error)) (*Image, error) {
	var p1 *Pass1
	if opts.RNGSeed != nil {
		p1 = NewPass1Seeded(*opts.RNGSeed)
	} else {
		p1 = NewPass1()
	}

	result, err := parse(p1)
	if err != nil {
		return nil, err
	}

	img, resolvedArgs, err := Pass2(result, opts.MemorySize, opts.Mode)
	if err != nil {
		return nil, err
	}

	if err := Validate(img, result.Records, resolvedArgs); err != nil {
		return nil, err
	}

	return img, nil
}
