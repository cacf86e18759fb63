package regio

// MemIO models the register space as a sparse map. It has no persistence
// and no bounds: every 4-byte-aligned offset is a register that reads back
// the last value written, zero initially. Tests use it as the hardware
// stand-in, with optional write fault injection.
type MemIO struct {
	regs map[uint64]uint32
	base uint64
	cmds []Command

	// writeFault, when set, is consulted before every register write. A
	// non-nil return aborts the write with that error.
	writeFault func(off uint64) error
}

var _ Backend = (*MemIO)(nil)

func (m *MemIO) Init(cfg Config) error {
	m.regs = make(map[uint64]uint32)
	m.base = cfg.BaseAddr
	return nil
}

// Finish drops the register state. Idempotent.
func (m *MemIO) Finish() error {
	m.regs = nil
	return nil
}

// SetWriteFault installs a fault hook applied to absolute register
// addresses. Pass nil to clear.
func (m *MemIO) SetWriteFault(f func(off uint64) error) { m.writeFault = f }

func (m *MemIO) Write32(off uint64, val uint32) error {
	if m.regs == nil {
		return ErrNotOpen
	}
	abs := m.base + off
	if m.writeFault != nil {
		if err := m.writeFault(abs); err != nil {
			return err
		}
	}
	m.regs[abs] = val
	return nil
}

func (m *MemIO) Read32(off uint64) (uint32, error) {
	if m.regs == nil {
		return 0, ErrNotOpen
	}
	return m.regs[m.base+off], nil
}

func (m *MemIO) MaskWrite32(off uint64, mask, val uint32) error {
	v, err := m.Read32(off)
	if err != nil {
		return err
	}
	v &^= mask
	v |= val
	return m.Write32(off, v)
}

func (m *MemIO) MaskPoll(off uint64, mask, want, timeoutUs uint32) error {
	return maskPoll(m.Read32, off, mask, want, timeoutUs)
}

func (m *MemIO) BlockWrite32(off uint64, data []uint32) error {
	for i, v := range data {
		if err := m.Write32(off+uint64(i)*4, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemIO) BlockSet32(off uint64, val uint32, count uint32) error {
	for i := uint32(0); i < count; i++ {
		if err := m.Write32(off+uint64(i)*4, val); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemIO) CmdWrite(col, row, cmd uint8, w0, w1 uint32, label string) error {
	if m.regs == nil {
		return ErrNotOpen
	}
	m.cmds = append(m.cmds, Command{Col: col, Row: row, Cmd: cmd, Word0: w0, Word1: w1, Label: label})
	return nil
}

// Commands returns the journal of submitted commands in order.
func (m *MemIO) Commands() []Command { return m.cmds }
