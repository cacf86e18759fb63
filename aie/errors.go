package aie

import "errors"

var (
	// ErrLocation indicates a tile location outside the device geometry.
	ErrLocation = errors.New("aie: location out of range")

	// ErrModule indicates a module kind that does not exist at the given
	// tile (core/mem on row 0, or shim above row 0).
	ErrModule = errors.New("aie: invalid module for tile")

	// ErrEvent indicates a logical event with no physical encoding for
	// the targeted module.
	ErrEvent = errors.New("aie: event not defined for module")

	// ErrGeometry indicates an invalid device configuration.
	ErrGeometry = errors.New("aie: invalid device geometry")
)
