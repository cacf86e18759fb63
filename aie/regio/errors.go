package regio

import "errors"

var (
	// ErrUnavailable indicates the selected backend is not available in
	// this build or deployment. Stub operations always return it.
	ErrUnavailable = errors.New("regio: backend unavailable")

	// ErrTimeout indicates a MaskPoll condition was never observed before
	// the timeout elapsed.
	ErrTimeout = errors.New("regio: poll timed out")

	// ErrBounds indicates a register offset outside the mapped window.
	ErrBounds = errors.New("regio: register offset out of bounds")

	// ErrNotOpen indicates an operation on a backend before Init or after
	// Finish.
	ErrNotOpen = errors.New("regio: backend not initialized")

	// ErrConfig indicates an invalid backend configuration.
	ErrConfig = errors.New("regio: invalid backend config")
)
