package rsc

import (
	"fmt"

	"github.com/erieaton-amd/aie-rt/aie"
	"github.com/erieaton-amd/aie-rt/internal/format"
	"github.com/erieaton-amd/aie-rt/internal/logger"
)

// SlotID identifies one combiner sub-slot (0..3) within a tile module.
type SlotID uint8

// PoolStats counts pool activity for instrumentation.
type PoolStats struct {
	Acquired  int
	Released  int
	Exhausted int
}

// Pool is the per-device bitmap of combiner slots, one bit array per
// module kind. It is explicit and injectable: each device (and each test)
// constructs its own pool over its own geometry.
//
// Bit offsets are location-derived hardware constants:
//
//	shim:      base = col * 4
//	core/mem:  base = (col*8 + (row-1)) * 4
type Pool struct {
	cols  uint8
	core  []uint64
	mem   []uint64
	shim  []uint64
	stats PoolStats
}

// NewPool returns an empty pool for an array of cols columns.
func NewPool(cols uint8) *Pool {
	computeBits := int(cols) * format.MaxComputeRows * format.SlotsPerModule
	shimBits := int(cols) * format.SlotsPerModule
	return &Pool{
		cols: cols,
		core: make([]uint64, (computeBits+63)/64),
		mem:  make([]uint64, (computeBits+63)/64),
		shim: make([]uint64, (shimBits+63)/64),
	}
}

// region maps (loc, mod) to its bit array and base offset. The pairing
// rule and the geometry bounds are re-checked here so the pool stays safe
// standalone: a location past the bitmap is invalid, not exhausted.
func (p *Pool) region(loc aie.Location, mod aie.ModuleKind) ([]uint64, int, error) {
	if loc.Col >= p.cols {
		return nil, 0, fmt.Errorf("%w: column %d of %d", ErrInvalidArgs, loc.Col, p.cols)
	}
	switch mod {
	case aie.ModShim:
		if loc.Row != 0 {
			return nil, 0, fmt.Errorf("%w: shim module at %s", ErrInvalidArgs, loc)
		}
		return p.shim, int(loc.Col) * format.SlotsPerModule, nil
	case aie.ModCore, aie.ModMem:
		if loc.Row == 0 || int(loc.Row) > format.MaxComputeRows {
			return nil, 0, fmt.Errorf("%w: %s module at %s", ErrInvalidArgs, mod, loc)
		}
		base := (int(loc.Col)*format.MaxComputeRows + int(loc.Row) - 1) * format.SlotsPerModule
		if mod == aie.ModCore {
			return p.core, base, nil
		}
		return p.mem, base, nil
	default:
		return nil, 0, fmt.Errorf("%w: module %s", ErrInvalidArgs, mod)
	}
}

// Acquire takes the first free slot of the module at loc. Exhaustion
// leaves the bitmap untouched.
func (p *Pool) Acquire(loc aie.Location, mod aie.ModuleKind) (SlotID, error) {
	bits, base, err := p.region(loc, mod)
	if err != nil {
		return 0, err
	}
	pos := allocBit(bits, base, format.SlotsPerModule)
	if pos < 0 {
		p.stats.Exhausted++
		logger.Error("combo slot acquire failed",
			"col", loc.Col, "row", loc.Row, "mod", mod.String())
		return 0, fmt.Errorf("%w: %s %s", ErrExhausted, loc, mod)
	}
	p.stats.Acquired++
	return SlotID(pos - base), nil
}

// Release returns one slot. Releasing a slot that is not held is caller
// misuse; the pool does not detect it.
func (p *Pool) Release(loc aie.Location, mod aie.ModuleKind, s SlotID) {
	bits, base, err := p.region(loc, mod)
	if err != nil {
		logger.Error("combo slot release on invalid region",
			"col", loc.Col, "row", loc.Row, "mod", mod.String())
		return
	}
	clearBit(bits, base+int(s))
	p.stats.Released++
}

// FreeCount reports how many slots of the module at loc are unheld.
func (p *Pool) FreeCount(loc aie.Location, mod aie.ModuleKind) (int, error) {
	bits, base, err := p.region(loc, mod)
	if err != nil {
		return 0, err
	}
	free := 0
	for pos := base; pos < base+format.SlotsPerModule; pos++ {
		if bits[pos/64]&(1<<(pos%64)) == 0 {
			free++
		}
	}
	return free, nil
}

// Stats returns a copy of the pool counters.
func (p *Pool) Stats() PoolStats { return p.stats }

// allocBit scans count bits from start for the first clear bit, sets it,
// and returns its absolute position; -1 when none is free.
func allocBit(bits []uint64, start, count int) int {
	for pos := start; pos < start+count; pos++ {
		w := pos / 64
		if w >= len(bits) {
			return -1
		}
		m := uint64(1) << (pos % 64)
		if bits[w]&m == 0 {
			bits[w] |= m
			return pos
		}
	}
	return -1
}

// clearBit clears exactly one bit.
func clearBit(bits []uint64, pos int) {
	w := pos / 64
	if w >= len(bits) {
		return
	}
	bits[w] &^= uint64(1) << (pos % 64)
}
