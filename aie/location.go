package aie

import "fmt"

// Location identifies one tile of the array.
type Location struct {
	Col uint8
	Row uint8
}

// At returns the Location for (col, row).
func At(col, row uint8) Location { return Location{Col: col, Row: row} }

func (l Location) String() string { return fmt.Sprintf("(%d,%d)", l.Col, l.Row) }

// ModuleKind identifies a functional sub-unit within a tile.
type ModuleKind int

const (
	// ModCore is the compute core module of a compute tile.
	ModCore ModuleKind = iota
	// ModMem is the local memory module of a compute tile.
	ModMem
	// ModShim is the interface logic of a shim tile (row 0).
	ModShim
)

func (m ModuleKind) String() string {
	switch m {
	case ModCore:
		return "core"
	case ModMem:
		return "mem"
	case ModShim:
		return "shim"
	default:
		return fmt.Sprintf("module(%d)", int(m))
	}
}

// TileType classifies a Location's tier.
type TileType int

const (
	// TileShim is the interface tier at row 0.
	TileShim TileType = iota
	// TileCompute is a compute/memory tile at rows >= 1.
	TileCompute
)
