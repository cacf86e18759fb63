// Package rsc manages hardware event-generation resources on the AI
// engine array.
//
// # Overview
//
// Each tile module carries a small, physically fixed number of event
// combiner slots. Pool tracks them in per-module bitmaps and multiplexes
// them across client requests; ComboEvent is the client-facing resource
// that combines 2-4 input events through up to 3 combiner stages into
// derived combo events.
//
// # Lifecycle
//
// Every resource follows the shared protocol
//
//	Created -> SetEvents -> Configured -> Reserve -> Reserved
//	        -> Start -> Started -> Stop -> Reserved -> Release -> Released
//
// A failed transition leaves the resource in its prior state. Reserve and
// Start roll back fully on partial failure: no mix of acquired/unacquired
// slots or programmed/unprogrammed registers ever survives an error
// return. Stop and Release are best-effort teardown.
//
// # Ownership
//
// A resource exclusively owns the slots it has reserved. The Pool is
// shared per-device state mutated only through Acquire and Release; it
// never tracks which resource holds a bit beyond the bit being set.
//
// # Thread Safety
//
// Pool and resource instances are not thread-safe. Access is
// single-threaded by contract; embedding applications serialize as needed.
package rsc
