package regio

import (
	"github.com/erieaton-amd/aie-rt/internal/buf"
	"github.com/erieaton-amd/aie-rt/internal/regmem"
)

// SimIO is the functional-simulation backend. The register space is a
// sparse file mapped read/write, so simulator state survives Finish and can
// be inspected offline. Command submissions are journaled in order.
type SimIO struct {
	win  *regmem.Window
	base uint64
	cmds []Command
}

var _ Backend = (*SimIO)(nil)

// Init maps the register file named by cfg.Path. cfg.Size must cover the
// device's register space.
func (s *SimIO) Init(cfg Config) error {
	if cfg.Path == "" || cfg.Size <= 0 {
		return ErrConfig
	}
	win, err := regmem.Open(cfg.Path, cfg.Size)
	if err != nil {
		return err
	}
	s.win = win
	s.base = cfg.BaseAddr
	return nil
}

// Finish syncs and unmaps the register window. Idempotent.
func (s *SimIO) Finish() error {
	if s.win == nil {
		return nil
	}
	err := s.win.Close()
	s.win = nil
	return err
}

func (s *SimIO) slot(off uint64) ([]byte, error) {
	if s.win == nil {
		return nil, ErrNotOpen
	}
	abs := s.base + off
	data := s.win.Bytes()
	// Guard the addition and the slice arithmetic against wrap-around;
	// offsets near the top of uint64 must fail, not panic.
	if abs < off || abs >= uint64(len(data)) || uint64(len(data))-abs < 4 {
		return nil, ErrBounds
	}
	return data[abs : abs+4], nil
}

func (s *SimIO) Write32(off uint64, val uint32) error {
	b, err := s.slot(off)
	if err != nil {
		return err
	}
	buf.PutU32LE(b, val)
	return nil
}

func (s *SimIO) Read32(off uint64) (uint32, error) {
	b, err := s.slot(off)
	if err != nil {
		return 0, err
	}
	return buf.U32LE(b), nil
}

func (s *SimIO) MaskWrite32(off uint64, mask, val uint32) error {
	v, err := s.Read32(off)
	if err != nil {
		return err
	}
	v &^= mask
	v |= val
	return s.Write32(off, v)
}

func (s *SimIO) MaskPoll(off uint64, mask, want, timeoutUs uint32) error {
	return maskPoll(s.Read32, off, mask, want, timeoutUs)
}

func (s *SimIO) BlockWrite32(off uint64, data []uint32) error {
	for i, v := range data {
		if err := s.Write32(off+uint64(i)*4, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *SimIO) BlockSet32(off uint64, val uint32, count uint32) error {
	for i := uint32(0); i < count; i++ {
		if err := s.Write32(off+uint64(i)*4, val); err != nil {
			return err
		}
	}
	return nil
}

// CmdWrite appends the command to the in-memory journal. The simulator's
// command channel carries no register semantics.
func (s *SimIO) CmdWrite(col, row, cmd uint8, w0, w1 uint32, label string) error {
	if s.win == nil {
		return ErrNotOpen
	}
	s.cmds = append(s.cmds, Command{Col: col, Row: row, Cmd: cmd, Word0: w0, Word1: w1, Label: label})
	return nil
}

// Commands returns the journal of submitted commands in order.
func (s *SimIO) Commands() []Command { return s.cmds }

// Sync flushes the register window to the backing file without unmapping.
func (s *SimIO) Sync() error {
	if s.win == nil {
		return ErrNotOpen
	}
	return s.win.Sync()
}
