package rsc

import "errors"

var (
	// ErrOrdering indicates an operation invoked outside its required
	// lifecycle state. Never retried, surfaced immediately.
	ErrOrdering = errors.New("rsc: operation out of lifecycle order")

	// ErrInvalidArgs indicates malformed input counts or an incompatible
	// location/module pairing.
	ErrInvalidArgs = errors.New("rsc: invalid arguments")

	// ErrTranslation indicates a logical event that is not valid for the
	// targeted location and module.
	ErrTranslation = errors.New("rsc: event translation failed")

	// ErrExhausted indicates the slot pool has no free bit in the
	// required range.
	ErrExhausted = errors.New("rsc: combo slots exhausted")

	// ErrProgram indicates a transport failure while writing combiner
	// registers.
	ErrProgram = errors.New("rsc: combiner programming failed")
)
