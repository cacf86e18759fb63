package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPeekCmd())
}

func newPeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peek <offset>",
		Short: "Read one 32-bit register",
		Long: `The peek command reads a single 32-bit register at the given byte
offset. The offset accepts decimal or 0x-prefixed hex.

Example:
  aiectl peek 0x34060 --sim-file regs.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeek(args)
		},
	}
	return cmd
}

func runPeek(args []string) error {
	off, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[0], err)
	}

	dev, err := openDevice()
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer dev.Close()

	val, err := dev.IO().Read32(off)
	if err != nil {
		return fmt.Errorf("read 0x%x: %w", off, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"offset": off,
			"value":  val,
		})
	}
	printInfo("0x%08x: 0x%08x\n", off, val)
	return nil
}
