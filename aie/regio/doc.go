// Package regio abstracts the low-level register transport for the AI
// engine array.
//
// # Overview
//
// All register traffic goes through the Backend capability interface:
// primitive 32-bit reads and writes, masked read-modify-write, a bounded
// masked poll, block writes and fills, and opaque command submission. The
// same higher-level code runs unchanged against each backend variant.
//
// # Backends
//
// SimIO: functional-simulation backend. Register space is a sparse file
// mapped read/write; command submissions are journaled.
//
// MemIO: in-memory backend. Registers live in a sparse map, which makes it
// the natural hardware stand-in for tests. Supports write fault injection.
//
// StubIO: disabled backend. Every operation reports ErrUnavailable instead
// of silently succeeding, so a misconfigured build surfaces immediately.
//
// # Blocking
//
// No operation blocks indefinitely. MaskPoll is the one suspending call and
// is bounded by its microsecond timeout; a timeout of zero still performs a
// single check.
//
// # Thread Safety
//
// Backend instances are not thread-safe. Callers must serialize access
// externally; the runtime is single-threaded by contract.
package regio
