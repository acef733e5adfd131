package vm

import "fmt"

// TrapKind distinguishes why the VM halted execution involuntarily.
type TrapKind int

const (
	TrapMemoryOutOfBounds TrapKind = iota
	TrapStackUnderflow
	TrapStackOverflow
	TrapStackMisalignment
	TrapStackBoundariesUndefined
	TrapUnknownOpcode
)

// Trap is a fatal VM runtime error; it halts the step loop and is
// reported to the caller with a non-zero exit.
type Trap struct {
	Kind    TrapKind
	Message string
}

func (t *Trap) Error() string {
	return t.Message
}

func trap(kind TrapKind, format string, args ...interface{}) *Trap {
	return &Trap{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
