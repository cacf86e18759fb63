// Package aie models the AI engine array device: the tile grid addressed
// by (column, row), the modules inside each tile, and the translation of
// logical events to their per-module hardware encodings.
//
// A Device is opened against one register transport backend (see
// aie/regio) and hands that transport to the resource layer (see aie/rsc).
// The device itself holds no resource state; it answers pure topology
// queries and owns the backend lifetime.
//
// Row 0 of the array is the shim (interface) tier; rows 1 and up are
// compute tiles carrying a core and a local memory module.
package aie
