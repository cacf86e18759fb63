package rsc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erieaton-amd/aie-rt/aie"
	"github.com/erieaton-amd/aie-rt/aie/regio"
	"github.com/erieaton-amd/aie-rt/aie/rsc"
	"github.com/erieaton-amd/aie-rt/internal/format"
)

func newDevice(t *testing.T) (*aie.Device, *rsc.Pool) {
	t.Helper()
	dev, err := aie.Open(aie.Config{Backend: regio.KindMem})
	require.NoError(t, err)
	t.Cleanup(func() { dev.Close() })
	return dev, rsc.NewPool(dev.Cols())
}

func memIO(t *testing.T, dev *aie.Device) *regio.MemIO {
	t.Helper()
	m, ok := dev.IO().(*regio.MemIO)
	require.True(t, ok)
	return m
}

func readReg(t *testing.T, dev *aie.Device, off uint64) uint32 {
	t.Helper()
	v, err := dev.IO().Read32(off)
	require.NoError(t, err)
	return v
}

func phys(t *testing.T, dev *aie.Device, loc aie.Location, mod aie.ModuleKind, ev aie.Event) uint32 {
	t.Helper()
	code, err := dev.PhysicalEvent(loc, mod, ev)
	require.NoError(t, err)
	return uint32(code)
}

func TestNewComboEventValidation(t *testing.T) {
	dev, pool := newDevice(t)

	for _, n := range []int{0, 1, 5} {
		_, err := rsc.NewComboEvent(dev, pool, aie.At(1, 2), aie.ModCore, n)
		require.ErrorIs(t, err, rsc.ErrInvalidArgs, "arity %d", n)
	}

	// Shim module on a compute row and vice versa.
	_, err := rsc.NewComboEvent(dev, pool, aie.At(1, 2), aie.ModShim, 2)
	require.ErrorIs(t, err, rsc.ErrInvalidArgs)
	_, err = rsc.NewComboEvent(dev, pool, aie.At(1, 0), aie.ModCore, 2)
	require.ErrorIs(t, err, rsc.ErrInvalidArgs)
}

func TestSetEventsValidation(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(1, 2)

	cases := []struct {
		name   string
		arity  int
		events []aie.Event
		ops    []aie.ComboOp
		ok     bool
	}{
		{"2ev-1op", 2, []aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd}, true},
		{"2ev-0op", 2, []aie.Event{aie.EventUser0, aie.EventUser1}, nil, false},
		{"2ev-2op", 2, []aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd, aie.OpOr}, false},
		{"2ev-wrong-count", 2, []aie.Event{aie.EventUser0}, []aie.ComboOp{aie.OpAnd}, false},
		{"3ev-2op", 3, []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2}, []aie.ComboOp{aie.OpAnd, aie.OpOr}, true},
		{"3ev-1op", 3, []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2}, []aie.ComboOp{aie.OpAnd}, false},
		{"4ev-3op", 4, []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2, aie.EventUser3}, []aie.ComboOp{aie.OpAnd, aie.OpOr, aie.OpXor}, true},
		{"4ev-4op", 4, []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2, aie.EventUser3}, []aie.ComboOp{aie.OpAnd, aie.OpOr, aie.OpXor, aie.OpAnd}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, tc.arity)
			require.NoError(t, err)

			err = c.SetEvents(tc.events, tc.ops)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, rsc.StateConfigured, c.State())
			} else {
				require.ErrorIs(t, err, rsc.ErrInvalidArgs)
				require.Equal(t, rsc.StateCreated, c.State())
			}
		})
	}
}

func TestSetEventsRoundTrip(t *testing.T) {
	dev, pool := newDevice(t)

	c, err := rsc.NewComboEvent(dev, pool, aie.At(0, 1), aie.ModMem, 3)
	require.NoError(t, err)

	events := []aie.Event{aie.EventDMAFinish0, aie.EventLockStall, aie.EventUser2}
	ops := []aie.ComboOp{aie.OpOr, aie.OpXor}
	require.NoError(t, c.SetEvents(events, ops))

	gotEvents, gotOps, err := c.InputEvents()
	require.NoError(t, err)
	require.Equal(t, events, gotEvents)
	require.Equal(t, ops, gotOps)
}

func TestSetEventsTranslationAtomic(t *testing.T) {
	dev, pool := newDevice(t)

	c, err := rsc.NewComboEvent(dev, pool, aie.At(1, 2), aie.ModCore, 2)
	require.NoError(t, err)

	// DMA finish has no core encoding; the call aborts with no partial
	// commit even though the first event translated fine.
	err = c.SetEvents([]aie.Event{aie.EventUser0, aie.EventDMAFinish0}, []aie.ComboOp{aie.OpAnd})
	require.ErrorIs(t, err, rsc.ErrTranslation)
	require.Equal(t, rsc.StateCreated, c.State())

	_, _, err = c.InputEvents()
	require.ErrorIs(t, err, rsc.ErrOrdering)

	// The resource remains usable after the failed attempt.
	err = c.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd})
	require.NoError(t, err)
}

func TestLifecycleOrdering(t *testing.T) {
	dev, pool := newDevice(t)

	c, err := rsc.NewComboEvent(dev, pool, aie.At(1, 2), aie.ModCore, 2)
	require.NoError(t, err)

	require.ErrorIs(t, c.Reserve(), rsc.ErrOrdering)
	require.ErrorIs(t, c.Start(), rsc.ErrOrdering)
	require.ErrorIs(t, c.Stop(), rsc.ErrOrdering)
	require.ErrorIs(t, c.Release(), rsc.ErrOrdering)

	_, err = c.Events()
	require.ErrorIs(t, err, rsc.ErrOrdering)

	require.NoError(t, c.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd}))
	require.ErrorIs(t, c.Start(), rsc.ErrOrdering)
	require.ErrorIs(t, c.Release(), rsc.ErrOrdering)

	// SetEvents is a one-way transition out of Created.
	err = c.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd})
	require.ErrorIs(t, err, rsc.ErrOrdering)
}

func TestReserveExhaustionRollsBack(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(0, 3)

	// Hold two of the four slots.
	first, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 2)
	require.NoError(t, err)
	require.NoError(t, first.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd}))
	require.NoError(t, first.Reserve())

	// A 4-input resource needs 4 slots but only 2 remain: the partial
	// acquisitions must be rolled back.
	big, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 4)
	require.NoError(t, err)
	events := []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2, aie.EventUser3}
	require.NoError(t, big.SetEvents(events, []aie.ComboOp{aie.OpAnd, aie.OpOr, aie.OpXor}))

	err = big.Reserve()
	require.ErrorIs(t, err, rsc.ErrExhausted)
	require.Equal(t, rsc.StateConfigured, big.State())
	require.Empty(t, big.Slots())

	free, err := pool.FreeCount(loc, aie.ModCore)
	require.NoError(t, err)
	require.Equal(t, 2, free)

	// After the holder releases, the big resource fits.
	require.NoError(t, first.Release())
	require.NoError(t, big.Reserve())
	require.Len(t, big.Slots(), 4)
}

func TestTwoInputEndToEnd(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(1, 2)

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 2)
	require.NoError(t, err)
	require.NoError(t, c.SetEvents([]aie.Event{aie.EventUser0, aie.EventBroadcast0}, []aie.ComboOp{aie.OpAnd}))

	require.NoError(t, c.Reserve())
	require.Equal(t, rsc.StateReserved, c.State())
	slots := c.Slots()
	require.Len(t, slots, 2)
	for _, s := range slots {
		require.Less(t, uint8(s), uint8(4))
	}

	require.NoError(t, c.Start())
	require.Equal(t, rsc.StateStarted, c.State())

	base := format.TileAddr(loc.Col, loc.Row)
	inputs := readReg(t, dev, base+format.CoreComboInputsOff)
	control := readReg(t, dev, base+format.CoreComboControlOff)

	evA := phys(t, dev, loc, aie.ModCore, aie.EventUser0)
	evB := phys(t, dev, loc, aie.ModCore, aie.EventBroadcast0)
	require.Equal(t, evA|evB<<8, inputs)
	require.Equal(t, uint32(aie.OpAnd), control)

	derived, err := c.Events()
	require.NoError(t, err)
	require.Equal(t, []aie.Event{aie.EventComboCore0}, derived)

	require.NoError(t, c.Stop())
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboInputsOff))
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboControlOff))

	require.NoError(t, c.Release())
	require.Equal(t, rsc.StateReleased, c.State())
	free, err := pool.FreeCount(loc, aie.ModCore)
	require.NoError(t, err)
	require.Equal(t, 4, free)
}

func TestSecondResourceUsesCombo1(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(1, 2)

	hold, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 2)
	require.NoError(t, err)
	require.NoError(t, hold.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpOr}))
	require.NoError(t, hold.Reserve())

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 2)
	require.NoError(t, err)
	require.NoError(t, c.SetEvents([]aie.Event{aie.EventUser2, aie.EventUser3}, []aie.ComboOp{aie.OpXor}))
	require.NoError(t, c.Reserve())
	require.Equal(t, []rsc.SlotID{2, 3}, c.Slots())

	require.NoError(t, c.Start())

	// Slots at or above 2 land on combiner 1: upper input fields, second
	// control field.
	base := format.TileAddr(loc.Col, loc.Row)
	inputs := readReg(t, dev, base+format.CoreComboInputsOff)
	control := readReg(t, dev, base+format.CoreComboControlOff)

	evA := phys(t, dev, loc, aie.ModCore, aie.EventUser2)
	evB := phys(t, dev, loc, aie.ModCore, aie.EventUser3)
	require.Equal(t, (evA|evB<<8)<<16, inputs)
	require.Equal(t, uint32(aie.OpXor)<<8, control)

	derived, err := c.Events()
	require.NoError(t, err)
	require.Equal(t, []aie.Event{aie.EventComboCore2}, derived)
}

func TestThreeInputPairsWithTrue(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(0, 1)

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModMem, 3)
	require.NoError(t, err)
	events := []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventDMAFinish0}
	require.NoError(t, c.SetEvents(events, []aie.ComboOp{aie.OpAnd, aie.OpOr}))
	require.NoError(t, c.Reserve())
	require.Len(t, c.Slots(), 3)
	require.NoError(t, c.Start())

	base := format.TileAddr(loc.Col, loc.Row)
	inputs := readReg(t, dev, base+format.MemComboInputsOff)
	control := readReg(t, dev, base+format.MemComboControlOff)

	evA := phys(t, dev, loc, aie.ModMem, aie.EventUser0)
	evB := phys(t, dev, loc, aie.ModMem, aie.EventUser1)
	evC := phys(t, dev, loc, aie.ModMem, aie.EventDMAFinish0)
	evTrue := phys(t, dev, loc, aie.ModMem, aie.EventTrue)

	// The odd trailing event pairs with the always-true event on
	// combiner 1.
	require.Equal(t, (evA|evB<<8)|(evC|evTrue<<8)<<16, inputs)
	require.Equal(t, uint32(aie.OpAnd)|uint32(aie.OpOr)<<8, control)

	derived, err := c.Events()
	require.NoError(t, err)
	require.Equal(t, []aie.Event{aie.EventComboMem0, aie.EventComboMem1}, derived)
}

func TestFourInputEndToEnd(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(1, 0)

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModShim, 4)
	require.NoError(t, err)
	events := []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2, aie.EventUser3}
	require.NoError(t, c.SetEvents(events, []aie.ComboOp{aie.OpAnd, aie.OpOr, aie.OpXor}))
	require.NoError(t, c.Reserve())
	require.NoError(t, c.Start())

	base := format.TileAddr(loc.Col, loc.Row)
	inputs := readReg(t, dev, base+format.ShimComboInputsOff)
	control := readReg(t, dev, base+format.ShimComboControlOff)

	ev := make([]uint32, 4)
	for i, e := range events {
		ev[i] = phys(t, dev, loc, aie.ModShim, e)
	}
	require.Equal(t, (ev[0]|ev[1]<<8)|(ev[2]|ev[3]<<8)<<16, inputs)

	// Two pair combiners plus the top-level combiner.
	want := uint32(aie.OpAnd) | uint32(aie.OpOr)<<8 | uint32(aie.OpXor)<<16
	require.Equal(t, want, control)

	derived, err := c.Events()
	require.NoError(t, err)
	require.Equal(t, []aie.Event{aie.EventComboShim0, aie.EventComboShim1, aie.EventComboShim2}, derived)
}

func TestStopIdempotent(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(1, 2)

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 2)
	require.NoError(t, err)
	require.NoError(t, c.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd}))
	require.NoError(t, c.Reserve())
	require.NoError(t, c.Start())

	base := format.TileAddr(loc.Col, loc.Row)
	require.NoError(t, c.Stop())
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboControlOff))
	require.Equal(t, rsc.StateReserved, c.State())

	// Stopping an already stopped resource is not an error and leaves
	// the registers idle.
	require.NoError(t, c.Stop())
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboControlOff))
	require.Equal(t, rsc.StateReserved, c.State())
}

func TestStartRollbackOnProgramFailure(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(0, 2)

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 4)
	require.NoError(t, err)
	events := []aie.Event{aie.EventUser0, aie.EventUser1, aie.EventUser2, aie.EventUser3}
	require.NoError(t, c.SetEvents(events, []aie.ComboOp{aie.OpAnd, aie.OpOr, aie.OpXor}))
	require.NoError(t, c.Reserve())

	// Fail the fourth register write (combiner 1's control) once: by
	// then combiner 0 is fully programmed and must be rolled back.
	writes := 0
	boom := errors.New("injected bus fault")
	memIO(t, dev).SetWriteFault(func(uint64) error {
		writes++
		if writes == 4 {
			return boom
		}
		return nil
	})

	err = c.Start()
	require.ErrorIs(t, err, rsc.ErrProgram)
	require.Equal(t, rsc.StateReserved, c.State())

	memIO(t, dev).SetWriteFault(nil)
	base := format.TileAddr(loc.Col, loc.Row)
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboInputsOff))
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboControlOff))

	// The resource still holds its slots and can start cleanly.
	require.NoError(t, c.Start())
	require.Equal(t, rsc.StateStarted, c.State())
}

func TestReleaseFromStarted(t *testing.T) {
	dev, pool := newDevice(t)
	loc := aie.At(1, 2)

	c, err := rsc.NewComboEvent(dev, pool, loc, aie.ModCore, 2)
	require.NoError(t, err)
	require.NoError(t, c.SetEvents([]aie.Event{aie.EventUser0, aie.EventUser1}, []aie.ComboOp{aie.OpAnd}))
	require.NoError(t, c.Reserve())
	require.NoError(t, c.Start())

	// Teardown from Started resets the hardware and frees the slots.
	require.NoError(t, c.Release())
	require.Equal(t, rsc.StateReleased, c.State())
	require.Empty(t, c.Slots())

	base := format.TileAddr(loc.Col, loc.Row)
	require.Equal(t, uint32(0), readReg(t, dev, base+format.CoreComboControlOff))

	free, err := pool.FreeCount(loc, aie.ModCore)
	require.NoError(t, err)
	require.Equal(t, 4, free)

	// Derived events are gone with the slots.
	_, err = c.Events()
	require.ErrorIs(t, err, rsc.ErrOrdering)
}
