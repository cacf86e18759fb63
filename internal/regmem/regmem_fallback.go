//go:build !unix

// Package regmem provides the file-backed register window used by the
// simulation IO backend.
package regmem

import (
	"fmt"
	"os"
)

// Window holds the register contents in memory when mmap is unavailable
// and writes them back on Sync/Close.
type Window struct {
	path string
	data []byte
}

// Open reads (or creates) the register file at path with the given size.
func Open(path string, size int64) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("regmem: invalid window size %d", size)
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if int64(len(data)) < size {
		grown := make([]byte, size)
		copy(grown, data)
		data = grown
	}
	return &Window{path: path, data: data}, nil
}

// Bytes returns the register window.
func (w *Window) Bytes() []byte { return w.data }

// Sync writes the window back to the register file.
func (w *Window) Sync() error {
	if w.data == nil {
		return nil
	}
	return os.WriteFile(w.path, w.data, 0644)
}

// Close syncs and drops the window. Safe to call twice.
func (w *Window) Close() error {
	if w.data == nil {
		return nil
	}
	err := w.Sync()
	w.data = nil
	return err
}
