package regio

import (
	"fmt"
	"time"
)

// Kind selects a register transport backend variant.
type Kind int

const (
	// KindSim is the functional-simulation backend backed by a register file.
	KindSim Kind = iota
	// KindMem is the in-memory backend.
	KindMem
	// KindStub is the disabled backend; all operations report ErrUnavailable.
	KindStub
)

func (k Kind) String() string {
	switch k {
	case KindSim:
		return "sim"
	case KindMem:
		return "mem"
	case KindStub:
		return "stub"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Config carries backend construction parameters. Fields not relevant to a
// backend variant are ignored by it.
type Config struct {
	// Path is the register file backing the sim backend.
	Path string

	// Size is the register window size in bytes (sim backend).
	Size int64

	// BaseAddr is added to every register offset before access.
	BaseAddr uint64
}

// Command is one opaque submission to a backend's command channel. Its
// semantics are backend-defined.
type Command struct {
	Col, Row uint8
	Cmd      uint8
	Word0    uint32
	Word1    uint32
	Label    string
}

// Backend is the register transport capability interface. Side effects are
// confined to the backend's private instance state.
type Backend interface {
	// Init attaches the backend context. The disabled stub reports
	// ErrUnavailable rather than silently succeeding.
	Init(cfg Config) error

	// Finish releases the backend context. Idempotent.
	Finish() error

	// Write32 writes one 32-bit register.
	Write32(off uint64, val uint32) error

	// Read32 reads one 32-bit register.
	Read32(off uint64) (uint32, error)

	// MaskWrite32 performs a read-modify-write:
	//   reg' = (reg &^ mask) | val
	MaskWrite32(off uint64, mask, val uint32) error

	// MaskPoll busy-waits until (reg & mask) == want, retrying once per
	// microsecond tick. A timeout of zero still performs one check.
	MaskPoll(off uint64, mask, want, timeoutUs uint32) error

	// BlockWrite32 writes sequential 32-bit words at 4-byte strides.
	BlockWrite32(off uint64, data []uint32) error

	// BlockSet32 fills count sequential words with val.
	BlockSet32(off uint64, val uint32, count uint32) error

	// CmdWrite submits an opaque command to the backend's command channel.
	CmdWrite(col, row, cmd uint8, w0, w1 uint32, label string) error
}

// New returns an uninitialized backend of the given kind. The caller owns
// backend selection; device construction invokes Init.
func New(kind Kind) (Backend, error) {
	switch kind {
	case KindSim:
		return &SimIO{}, nil
	case KindMem:
		return &MemIO{}, nil
	case KindStub:
		return &StubIO{}, nil
	default:
		return nil, fmt.Errorf("regio: unknown backend kind %d", int(kind))
	}
}

// maskPoll implements the shared poll loop over a backend's read primitive.
// A zero timeout is bumped to a single tick, matching the hardware driver
// contract.
func maskPoll(read func(uint64) (uint32, error), off uint64, mask, want, timeoutUs uint32) error {
	if timeoutUs == 0 {
		timeoutUs++
	}
	for ; timeoutUs > 0; timeoutUs-- {
		v, err := read(off)
		if err != nil {
			return err
		}
		if v&mask == want {
			return nil
		}
		time.Sleep(time.Microsecond)
	}
	return ErrTimeout
}
