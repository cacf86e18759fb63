package aie

import (
	"fmt"

	"github.com/erieaton-amd/aie-rt/aie/regio"
	"github.com/erieaton-amd/aie-rt/internal/format"
)

// Config describes the device to open.
type Config struct {
	// Cols and Rows give the array geometry. Rows includes the shim row;
	// zero values select the defaults below.
	Cols uint8
	Rows uint8

	// Backend selects the register transport variant.
	Backend regio.Kind

	// SimPath is the register file for the sim backend.
	SimPath string

	// BaseAddr is added to every register address by the transport.
	BaseAddr uint64
}

const (
	defaultCols = 2
	defaultRows = format.MaxComputeRows + 1
)

// Device is an opened AI engine array. It owns the transport instance and
// answers topology queries; resource state lives in aie/rsc.
type Device struct {
	cols uint8
	rows uint8
	io   regio.Backend
}

// Open constructs the selected backend, attaches it, and returns the
// device. The backend is chosen here and only its capability interface is
// used afterwards.
func Open(cfg Config) (*Device, error) {
	if cfg.Cols == 0 {
		cfg.Cols = defaultCols
	}
	if cfg.Rows == 0 {
		cfg.Rows = defaultRows
	}
	if cfg.Rows > format.MaxComputeRows+1 {
		return nil, fmt.Errorf("%w: %d rows exceeds %d", ErrGeometry, cfg.Rows, format.MaxComputeRows+1)
	}

	b, err := regio.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	err = b.Init(regio.Config{
		Path:     cfg.SimPath,
		Size:     format.WindowSize(cfg.Cols),
		BaseAddr: cfg.BaseAddr,
	})
	if err != nil {
		return nil, err
	}

	return &Device{cols: cfg.Cols, rows: cfg.Rows, io: b}, nil
}

// IO returns the register transport.
func (d *Device) IO() regio.Backend { return d.io }

// Cols returns the number of columns.
func (d *Device) Cols() uint8 { return d.cols }

// Rows returns the number of rows, including the shim row.
func (d *Device) Rows() uint8 { return d.rows }

// Close releases the transport. Idempotent.
func (d *Device) Close() error { return d.io.Finish() }

// TileType classifies the tile at loc.
func (d *Device) TileType(loc Location) (TileType, error) {
	if loc.Col >= d.cols || loc.Row >= d.rows {
		return 0, fmt.Errorf("%w: %s", ErrLocation, loc)
	}
	if loc.Row == 0 {
		return TileShim, nil
	}
	return TileCompute, nil
}

// ValidateModule checks that mod exists at loc. Core and Mem are valid
// only on compute rows, Shim only on row 0.
func (d *Device) ValidateModule(loc Location, mod ModuleKind) error {
	tt, err := d.TileType(loc)
	if err != nil {
		return err
	}
	switch mod {
	case ModCore, ModMem:
		if tt != TileCompute {
			return fmt.Errorf("%w: %s at %s", ErrModule, mod, loc)
		}
	case ModShim:
		if tt != TileShim {
			return fmt.Errorf("%w: %s at %s", ErrModule, mod, loc)
		}
	default:
		return fmt.Errorf("%w: %s at %s", ErrModule, mod, loc)
	}
	return nil
}

// PhysicalEvent translates a logical event to the module's hardware code.
// The query is pure; it fails when the event has no encoding for mod.
func (d *Device) PhysicalEvent(loc Location, mod ModuleKind, ev Event) (uint8, error) {
	if err := d.ValidateModule(loc, mod); err != nil {
		return 0, err
	}
	code, ok := moduleEvents(mod)[ev]
	if !ok {
		return 0, fmt.Errorf("%w: event %d, module %s", ErrEvent, int(ev), mod)
	}
	return code, nil
}

// ComboEventBase returns the module's first derived combo event. Combiner
// k of the module emits ComboEventBase + k.
func (d *Device) ComboEventBase(loc Location, mod ModuleKind) (Event, error) {
	tt, err := d.TileType(loc)
	if err != nil {
		return 0, err
	}
	if tt == TileShim {
		return EventComboShim0, nil
	}
	if mod == ModCore {
		return EventComboCore0, nil
	}
	return EventComboMem0, nil
}
