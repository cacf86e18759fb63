//go:build unix

package regmem

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Window is a file-backed register window mapped read/write. The backing
// file is created sparse, so untouched register pages cost nothing.
type Window struct {
	f    *os.File
	data []byte
}

// Open maps size bytes of the file at path into memory, creating or
// extending the file as needed.
func Open(path string, size int64) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("regmem: invalid window size %d", size)
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("regmem: window too large to map (%d bytes)", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, err
		}
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Window{f: f, data: data}, nil
}

// Bytes returns the mapped register window.
func (w *Window) Bytes() []byte { return w.data }

// Sync flushes the window to the backing file.
func (w *Window) Sync() error {
	if w.data == nil {
		return nil
	}
	return unix.Msync(w.data, unix.MS_SYNC)
}

// Close syncs, unmaps and closes the backing file. Safe to call twice.
func (w *Window) Close() error {
	if w.data == nil {
		return nil
	}
	syncErr := w.Sync()
	err := syscall.Munmap(w.data)
	w.data = nil
	if errors.Is(err, syscall.EINVAL) {
		// Treat double-unmap as no-op for callers.
		err = nil
	}
	closeErr := w.f.Close()
	if syncErr != nil {
		return syncErr
	}
	if err != nil {
		return err
	}
	return closeErr
}
