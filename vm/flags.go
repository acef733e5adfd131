package vm

// Flags holds the three condition flags, recomputed from the new value
// of A after every instruction step regardless of whether that
// instruction modified A.
type Flags struct {
	Zero     bool
	Negative bool
	Even     bool
}

func computeFlags(a uint32) Flags {
	return Flags{
		Zero:     a == 0,
		Negative: int32(a) < 0,
		Even:     a&1 == 0,
	}
}
