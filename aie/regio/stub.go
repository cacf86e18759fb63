package regio

import "github.com/erieaton-amd/aie-rt/internal/logger"

// StubIO is the disabled backend. Builds that do not carry a transport
// still satisfy the Backend interface, but every operation reports
// ErrUnavailable so misconfiguration cannot pass silently.
type StubIO struct{}

var _ Backend = (*StubIO)(nil)

func (*StubIO) Init(Config) error {
	logger.Warn("register transport not available, IO operations will fail", "backend", "stub")
	return ErrUnavailable
}

// Finish is a no-op on the stub.
func (*StubIO) Finish() error { return nil }

func (*StubIO) Write32(uint64, uint32) error { return ErrUnavailable }

func (*StubIO) Read32(uint64) (uint32, error) { return 0, ErrUnavailable }

func (*StubIO) MaskWrite32(uint64, uint32, uint32) error { return ErrUnavailable }

func (*StubIO) MaskPoll(uint64, uint32, uint32, uint32) error { return ErrUnavailable }

func (*StubIO) BlockWrite32(uint64, []uint32) error { return ErrUnavailable }

func (*StubIO) BlockSet32(uint64, uint32, uint32) error { return ErrUnavailable }

func (*StubIO) CmdWrite(uint8, uint8, uint8, uint32, uint32, string) error { return ErrUnavailable }
