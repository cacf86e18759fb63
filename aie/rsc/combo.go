package rsc

import (
	"fmt"

	"github.com/erieaton-amd/aie-rt/aie"
	"github.com/erieaton-amd/aie-rt/internal/format"
	"github.com/erieaton-amd/aie-rt/internal/logger"
)

// ComboEvent combines 2-4 input events of one tile module through up to 3
// hardware combiner stages into derived combo events. The number of input
// events is fixed at construction.
//
// Pair combiners take consecutive input events: combiner for events 0,1 is
// derived from the first reserved slot, the one for events 2,3 from the
// slot at the second pair. With 4 inputs (3 ops) a top-level combiner
// combines the two pair outputs. A 3-input configuration pairs the odd
// trailing event with the always-true event so programming stays whole
// pairs.
type ComboEvent struct {
	lifecycle

	dev  *aie.Device
	pool *Pool
	loc  aie.Location
	mod  aie.ModuleKind

	arity  int
	events []aie.Event
	phys   []uint8
	ops    []aie.ComboOp
	slots  []SlotID

	// comboID is the aggregate combiner identity derived at reserve:
	// pair slots below 2 map to combiner 0, at or above 2 to combiner 1,
	// and a two-pair configuration to the top-level combiner 2.
	comboID int
}

// NewComboEvent creates a combo event resource for numEvents input events
// (2..4) at the given tile module. Argument validation is the one failure
// that aborts object creation.
func NewComboEvent(dev *aie.Device, pool *Pool, loc aie.Location, mod aie.ModuleKind, numEvents int) (*ComboEvent, error) {
	if numEvents < 2 || numEvents > format.MaxComboInputs {
		return nil, fmt.Errorf("%w: %d input events", ErrInvalidArgs, numEvents)
	}
	if err := dev.ValidateModule(loc, mod); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	c := &ComboEvent{
		dev:   dev,
		pool:  pool,
		loc:   loc,
		mod:   mod,
		arity: numEvents,
	}
	c.onReserve = c.reserveSlots
	c.onStart = c.program
	c.onStop = c.reset
	c.onRelease = c.releaseSlots
	return c, nil
}

// SetEvents validates and translates the input events and copies the ops.
// events must match the count fixed at construction; ops must be exactly 1
// for 2 events, else 2 or 3. The first translation failure aborts the
// whole call with no partial commit.
func (c *ComboEvent) SetEvents(events []aie.Event, ops []aie.ComboOp) error {
	if c.state != StateCreated {
		return fmt.Errorf("%w: set events while %s", ErrOrdering, c.state)
	}
	if len(events) != c.arity || !opCountValid(len(events), len(ops)) {
		logger.Error("combo event config rejected",
			"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(),
			"events", len(events), "ops", len(ops))
		return fmt.Errorf("%w: %d events with %d ops", ErrInvalidArgs, len(events), len(ops))
	}

	phys := make([]uint8, len(events))
	for i, ev := range events {
		code, err := c.dev.PhysicalEvent(c.loc, c.mod, ev)
		if err != nil {
			logger.Error("combo event translation failed",
				"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(),
				"event", int(ev), "call", "SetEvents")
			return fmt.Errorf("%w: event %d: %v", ErrTranslation, int(ev), err)
		}
		phys[i] = code
	}

	c.events = append([]aie.Event(nil), events...)
	c.phys = phys
	c.ops = append([]aie.ComboOp(nil), ops...)
	c.state = StateConfigured
	return nil
}

func opCountValid(events, ops int) bool {
	if events <= 2 {
		return ops == 1
	}
	return ops >= 2 && ops <= 3
}

// InputEvents returns the validated input events and ops verbatim.
// Ordering error before configuration.
func (c *ComboEvent) InputEvents() ([]aie.Event, []aie.ComboOp, error) {
	if c.state == StateCreated {
		return nil, nil, fmt.Errorf("%w: no input events configured", ErrOrdering)
	}
	return append([]aie.Event(nil), c.events...), append([]aie.ComboOp(nil), c.ops...), nil
}

// Events returns the derived combo event identifiers visible to downstream
// consumers: a single identifier when only one pairing level is
// configured, else one per configured op. Requires the resource to hold
// its slots (Reserved or Started).
func (c *ComboEvent) Events() ([]aie.Event, error) {
	if c.state != StateReserved && c.state != StateStarted {
		return nil, fmt.Errorf("%w: combo events not reserved", ErrOrdering)
	}
	base, err := c.dev.ComboEventBase(c.loc, c.mod)
	if err != nil {
		return nil, err
	}
	if len(c.ops) == 1 {
		return []aie.Event{base + aie.Event(c.slots[0])}, nil
	}
	out := make([]aie.Event, len(c.ops))
	for i := range c.ops {
		out[i] = base + aie.Event(i)
	}
	return out, nil
}

// reserveSlots acquires one slot per input event, releasing the
// acquired-so-far list on any failure so a failed reserve holds nothing.
func (c *ComboEvent) reserveSlots() error {
	acquired := make([]SlotID, 0, c.arity)
	for i := 0; i < c.arity; i++ {
		s, err := c.pool.Acquire(c.loc, c.mod)
		if err != nil {
			for _, a := range acquired {
				c.pool.Release(c.loc, c.mod, a)
			}
			logger.Error("combo event reserve failed",
				"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(),
				"acquired", len(acquired), "call", "Reserve")
			return err
		}
		acquired = append(acquired, s)
	}
	c.slots = acquired

	if len(c.slots) <= 2 {
		if c.slots[0] < 2 {
			c.comboID = format.Combo0
		} else {
			c.comboID = format.Combo1
		}
	} else {
		c.comboID = format.Combo2
	}
	return nil
}

// releaseSlots returns every held slot to the pool.
func (c *ComboEvent) releaseSlots() error {
	for _, s := range c.slots {
		c.pool.Release(c.loc, c.mod, s)
	}
	c.slots = nil
	return nil
}

// pairCombiner derives the hardware combiner for the pair starting at
// input index i from the slot reserved for that pair.
func (c *ComboEvent) pairCombiner(i int) int {
	if c.slots[i] < 2 {
		return format.Combo0
	}
	return format.Combo1
}

// program writes one combiner register per pair of consecutive input
// events, plus the top-level combiner when 3 ops are configured. Any
// transport failure resets everything written during this call before
// returning.
func (c *ComboEvent) program() error {
	written := make([]int, 0, 3)
	fail := func(combiner int, err error) error {
		logger.Error("combo event programming failed",
			"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(),
			"combiner", combiner, "call", "Start")
		c.resetCombiners(append(written, combiner))
		return fmt.Errorf("%w: combiner %d: %v", ErrProgram, combiner, err)
	}

	for i := 0; i < c.arity; i += 2 {
		combiner := c.pairCombiner(i)
		evA := c.phys[i]
		evB, err := c.pairPartner(i)
		if err != nil {
			return fail(combiner, err)
		}
		if err := c.writeCombiner(combiner, evA, evB, c.ops[i/2]); err != nil {
			return fail(combiner, err)
		}
		written = append(written, combiner)
	}

	if len(c.ops) == 3 {
		// The top-level combiner takes the pair outputs; only its op
		// field is programmed.
		if err := c.writeControl(format.Combo2, c.ops[2]); err != nil {
			return fail(format.Combo2, err)
		}
	}
	logger.Debug("combo event programmed",
		"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(), "combo", c.comboID)
	return nil
}

// pairPartner returns the physical second event of the pair at i. An odd
// 3-input configuration pairs its trailing event with the always-true
// event.
func (c *ComboEvent) pairPartner(i int) (uint8, error) {
	if i+1 < c.arity {
		return c.phys[i+1], nil
	}
	return c.dev.PhysicalEvent(c.loc, c.mod, aie.EventTrue)
}

// reset returns every combiner this resource programs to the idle
// encoding. Best-effort: transport failures are logged, never surfaced.
func (c *ComboEvent) reset() error {
	combiners := make([]int, 0, 3)
	for i := 0; i < c.arity; i += 2 {
		combiners = append(combiners, c.pairCombiner(i))
	}
	if len(c.ops) == 3 {
		combiners = append(combiners, format.Combo2)
	}
	c.resetCombiners(combiners)
	return nil
}

func (c *ComboEvent) resetCombiners(combiners []int) {
	for _, cb := range combiners {
		if err := c.writeControl(cb, format.ComboIdle); err != nil {
			logger.Warn("combo control reset failed",
				"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(), "combiner", cb)
		}
		if cb >= format.Combo2 {
			continue
		}
		io := c.dev.IO()
		inputs, _ := c.regOffsets()
		if err := io.MaskWrite32(inputs, format.ComboInputsMask(cb), 0); err != nil {
			logger.Warn("combo inputs reset failed",
				"col", c.loc.Col, "row", c.loc.Row, "mod", c.mod.String(), "combiner", cb)
		}
	}
}

// writeCombiner programs a pair combiner's input events and op.
func (c *ComboEvent) writeCombiner(combiner int, evA, evB uint8, op aie.ComboOp) error {
	inputs, _ := c.regOffsets()
	io := c.dev.IO()
	err := io.MaskWrite32(inputs,
		format.ComboInputsMask(combiner),
		format.ComboInputsValue(combiner, evA, evB))
	if err != nil {
		return err
	}
	return c.writeControl(combiner, op)
}

// writeControl programs one combiner's op field.
func (c *ComboEvent) writeControl(combiner int, op aie.ComboOp) error {
	_, control := c.regOffsets()
	return c.dev.IO().MaskWrite32(control,
		format.ComboControlMask(combiner),
		format.ComboControlValue(combiner, uint32(op)))
}

// regOffsets returns the absolute inputs and control register addresses of
// this resource's tile module.
func (c *ComboEvent) regOffsets() (inputs, control uint64) {
	base := format.TileAddr(c.loc.Col, c.loc.Row)
	switch c.mod {
	case aie.ModCore:
		return base + format.CoreComboInputsOff, base + format.CoreComboControlOff
	case aie.ModMem:
		return base + format.MemComboInputsOff, base + format.MemComboControlOff
	default:
		return base + format.ShimComboInputsOff, base + format.ShimComboControlOff
	}
}

// Location returns the resource's tile.
func (c *ComboEvent) Location() aie.Location { return c.loc }

// ComboID returns the aggregate combiner identity, meaningful once
// Reserved.
func (c *ComboEvent) ComboID() int { return c.comboID }

// Module returns the resource's module kind.
func (c *ComboEvent) Module() aie.ModuleKind { return c.mod }

// Slots returns the held slot ids, empty unless Reserved or Started.
func (c *ComboEvent) Slots() []SlotID { return append([]SlotID(nil), c.slots...) }
