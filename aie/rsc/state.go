package rsc

import "fmt"

// State is a resource's position in the shared lifecycle.
type State int

const (
	StateCreated State = iota
	StateConfigured
	StateReserved
	StateStarted
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateReserved:
		return "reserved"
	case StateStarted:
		return "started"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// lifecycle implements the shared reserve/start/stop/release protocol.
// Resource types embed it and install their hardware hooks; a guarded
// transition advances only when its hook succeeds, so a failed hook
// leaves the prior state.
type lifecycle struct {
	state State

	onReserve func() error
	onStart   func() error
	onStop    func() error
	onRelease func() error
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State { return l.state }

// Reserve acquires the resource's hardware slots. Requires Configured.
func (l *lifecycle) Reserve() error {
	if l.state != StateConfigured {
		return fmt.Errorf("%w: reserve while %s", ErrOrdering, l.state)
	}
	if err := l.onReserve(); err != nil {
		return err
	}
	l.state = StateReserved
	return nil
}

// Start programs the reserved hardware. Requires Reserved.
func (l *lifecycle) Start() error {
	if l.state != StateReserved {
		return fmt.Errorf("%w: start while %s", ErrOrdering, l.state)
	}
	if err := l.onStart(); err != nil {
		return err
	}
	l.state = StateStarted
	return nil
}

// Stop returns the hardware to its idle encoding. Allowed from Started or
// Reserved, so stopping twice is not an error.
func (l *lifecycle) Stop() error {
	switch l.state {
	case StateStarted, StateReserved:
		if err := l.onStop(); err != nil {
			return err
		}
		l.state = StateReserved
		return nil
	default:
		return fmt.Errorf("%w: stop while %s", ErrOrdering, l.state)
	}
}

// Release returns every held slot. Allowed from Reserved; a Started
// resource is stopped first as best-effort teardown.
func (l *lifecycle) Release() error {
	switch l.state {
	case StateStarted:
		// Teardown path: reset hardware before giving slots back.
		_ = l.onStop()
	case StateReserved:
	default:
		return fmt.Errorf("%w: release while %s", ErrOrdering, l.state)
	}
	if err := l.onRelease(); err != nil {
		return err
	}
	l.state = StateReleased
	return nil
}
