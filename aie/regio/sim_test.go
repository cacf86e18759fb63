package regio

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSim(t *testing.T, size int64) *SimIO {
	t.Helper()
	s := &SimIO{}
	err := s.Init(Config{Path: filepath.Join(t.TempDir(), "regs.bin"), Size: size})
	require.NoError(t, err)
	t.Cleanup(func() { s.Finish() })
	return s
}

func TestSimReadWrite(t *testing.T) {
	s := newSim(t, 1<<16)

	require.NoError(t, s.Write32(0x1000, 0xCAFEBABE))
	v, err := s.Read32(0x1000)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), v)

	require.NoError(t, s.MaskWrite32(0x1000, 0xFF, 0x12))
	v, err = s.Read32(0x1000)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBA12), v)
}

func TestSimBounds(t *testing.T) {
	s := newSim(t, 4096)
	require.ErrorIs(t, s.Write32(4096, 1), ErrBounds)
	require.ErrorIs(t, s.Write32(4094, 1), ErrBounds)
	_, err := s.Read32(1 << 20)
	require.ErrorIs(t, err, ErrBounds)

	// Offsets near the top of the address space wrap the naive abs+4
	// arithmetic; they must surface as ErrBounds, never a panic.
	_, err = s.Read32(math.MaxUint64 - 1)
	require.ErrorIs(t, err, ErrBounds)
	require.ErrorIs(t, s.Write32(math.MaxUint64-3, 1), ErrBounds)
	require.ErrorIs(t, s.MaskWrite32(math.MaxUint64, 1, 1), ErrBounds)
}

func TestSimConfig(t *testing.T) {
	s := &SimIO{}
	require.ErrorIs(t, s.Init(Config{}), ErrConfig)
	require.ErrorIs(t, s.Init(Config{Path: "x"}), ErrConfig)
}

func TestSimFinishIdempotent(t *testing.T) {
	s := &SimIO{}
	path := filepath.Join(t.TempDir(), "regs.bin")
	require.NoError(t, s.Init(Config{Path: path, Size: 4096}))
	require.NoError(t, s.Write32(0, 7))
	require.NoError(t, s.Finish())
	require.NoError(t, s.Finish())
	require.ErrorIs(t, s.Write32(0, 7), ErrNotOpen)

	// State persisted to the register file.
	s2 := &SimIO{}
	require.NoError(t, s2.Init(Config{Path: path, Size: 4096}))
	defer s2.Finish()
	v, err := s2.Read32(0)
	require.NoError(t, err)
	require.Equal(t, uint32(7), v)
}

func TestSimBaseAddr(t *testing.T) {
	s := &SimIO{}
	err := s.Init(Config{Path: filepath.Join(t.TempDir(), "regs.bin"), Size: 4096, BaseAddr: 0x100})
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.Write32(0, 0x55))
	// Offset 0 lands at BaseAddr in the window.
	require.ErrorIs(t, s.Write32(4096-0x100, 1), ErrBounds)
}

func TestSimCmdJournal(t *testing.T) {
	s := newSim(t, 4096)
	require.NoError(t, s.CmdWrite(0, 1, 3, 1, 2, "start"))
	require.NoError(t, s.CmdWrite(0, 1, 4, 0, 0, "stop"))
	cmds := s.Commands()
	require.Len(t, cmds, 2)
	require.Equal(t, "stop", cmds[1].Label)
}
