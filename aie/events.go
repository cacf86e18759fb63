package aie

// Event is a logical event identifier. Logical events are portable names;
// before any register use they must be translated to the small physical
// code the targeted module understands, which differs per module and can
// be undefined for some module kinds.
type Event int

const (
	// EventNone never fires.
	EventNone Event = iota
	// EventTrue is always asserted.
	EventTrue
	EventUser0
	EventUser1
	EventUser2
	EventUser3
	EventBroadcast0
	EventLockStall
	EventStreamStall
	EventPerfThreshold0
	EventDMAFinish0

	// Derived combo events, one block per module kind. Combiner k of a
	// module emits the module's combo event k.
	EventComboCore0
	EventComboCore1
	EventComboCore2
	EventComboCore3
	EventComboMem0
	EventComboMem1
	EventComboMem2
	EventComboMem3
	EventComboShim0
	EventComboShim1
	EventComboShim2
	EventComboShim3
)

// ComboOp is the 2-input operator a combiner applies to its event pair.
type ComboOp uint32

const (
	// OpNone disables the combiner; also the idle register encoding.
	OpNone ComboOp = iota
	OpAnd
	OpOr
	OpXor
)

func (op ComboOp) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	default:
		return "op(?)"
	}
}

// Per-module physical event codes. An event absent from a module's table
// is not defined for that module and fails translation.
var (
	coreEvents = map[Event]uint8{
		EventNone:           0,
		EventTrue:           1,
		EventPerfThreshold0: 40,
		EventLockStall:      58,
		EventComboCore0:     68,
		EventComboCore1:     69,
		EventComboCore2:     70,
		EventComboCore3:     71,
		EventStreamStall:    86,
		EventBroadcast0:     107,
		EventUser0:          124,
		EventUser1:          125,
		EventUser2:          126,
		EventUser3:          127,
	}

	memEvents = map[Event]uint8{
		EventNone:           0,
		EventTrue:           1,
		EventPerfThreshold0: 34,
		EventLockStall:      50,
		EventDMAFinish0:     60,
		EventComboMem0:      74,
		EventComboMem1:      75,
		EventComboMem2:      76,
		EventComboMem3:      77,
		EventBroadcast0:     98,
		EventUser0:          116,
		EventUser1:          117,
		EventUser2:          118,
		EventUser3:          119,
	}

	shimEvents = map[Event]uint8{
		EventNone:           0,
		EventTrue:           1,
		EventPerfThreshold0: 30,
		EventDMAFinish0:     46,
		EventComboShim0:     60,
		EventComboShim1:     61,
		EventComboShim2:     62,
		EventComboShim3:     63,
		EventStreamStall:    74,
		EventBroadcast0:     88,
		EventUser0:          94,
		EventUser1:          95,
		EventUser2:          96,
		EventUser3:          97,
	}
)

func moduleEvents(mod ModuleKind) map[Event]uint8 {
	switch mod {
	case ModCore:
		return coreEvents
	case ModMem:
		return memEvents
	case ModShim:
		return shimEvents
	default:
		return nil
	}
}
