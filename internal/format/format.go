// Package format houses the register-layout constants and field encoders for
// the AI engine array. The goal is to keep the address arithmetic and bit
// packing in one place, independent from the public API so higher-level
// packages can stay focused on resource semantics.
package format

const (
	// AddrColShift and AddrRowShift position a tile's column and row inside
	// a register address. Every tile owns a 256 KiB register window:
	//   addr = col<<23 | row<<18 | regOff
	AddrColShift = 23
	AddrRowShift = 18

	// MaxComputeRows is the number of non-shim rows per column in the
	// addressed array. Together with SlotsPerModule it fixes the combo
	// bitmap offset formula.
	MaxComputeRows = 8

	// SlotsPerModule is the number of combiner sub-slots per tile module.
	SlotsPerModule = 4

	// MaxComboInputs is the largest number of input events one combo
	// resource can combine.
	MaxComboInputs = 4

	// Combiner identifiers. Combo 0 and 1 each combine a pair of input
	// events; combo 2 combines the outputs of combo 0 and 1.
	Combo0 = 0
	Combo1 = 1
	Combo2 = 2

	// Combo event register offsets within a tile's register window.
	// The inputs register holds four 8-bit physical event fields (two per
	// pair combiner); the control register holds one 8-bit op field per
	// combiner (low 2 bits used).
	CoreComboInputsOff  = 0x00034060
	CoreComboControlOff = 0x00034064
	MemComboInputsOff   = 0x00014060
	MemComboControlOff  = 0x00014064
	ShimComboInputsOff  = 0x00034060
	ShimComboControlOff = 0x00034064

	// ComboIdle is the disabled encoding for a combiner's control field.
	ComboIdle = 0
)

// TileAddr returns the base register address of the tile at (col, row).
func TileAddr(col, row uint8) uint64 {
	return uint64(col)<<AddrColShift | uint64(row)<<AddrRowShift
}

// WindowSize returns the size in bytes of the register space covering an
// array of cols columns. The last column's window ends at (cols)<<AddrColShift.
func WindowSize(cols uint8) int64 {
	return int64(cols) << AddrColShift
}

// ComboInputsValue packs the two 8-bit physical event fields of a pair
// combiner. Combo 0 occupies bits 0..15, combo 1 bits 16..31. Combo 2 has
// no input fields; it is driven by the outputs of combo 0 and 1.
func ComboInputsValue(combiner int, evA, evB uint8) uint32 {
	return (uint32(evA) | uint32(evB)<<8) << (16 * uint(combiner))
}

// ComboInputsMask returns the mask covering a pair combiner's input fields.
func ComboInputsMask(combiner int) uint32 {
	return 0xFFFF << (16 * uint(combiner))
}

// ComboControlValue packs a combiner's op into its 8-bit control field.
func ComboControlValue(combiner int, op uint32) uint32 {
	return op << (8 * uint(combiner))
}

// ComboControlMask returns the mask covering a combiner's control field.
func ComboControlMask(combiner int) uint32 {
	return 0xFF << (8 * uint(combiner))
}
