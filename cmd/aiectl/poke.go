package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPokeCmd())
}

func newPokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poke <offset> <value>",
		Short: "Write one 32-bit register",
		Long: `The poke command writes a single 32-bit register at the given byte
offset. Offset and value accept decimal or 0x-prefixed hex. With --mask,
only the mask bits are modified (read-modify-write).

Example:
  aiectl poke 0x34064 0x0101 --sim-file regs.bin
  aiectl poke 0x34064 0x0100 --mask 0xff00 --sim-file regs.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := cmd.Flags().GetString("mask")
			if err != nil {
				return err
			}
			return runPoke(args, mask)
		},
	}
	cmd.Flags().String("mask", "", "Modify only the mask bits")
	return cmd
}

func runPoke(args []string, maskArg string) error {
	off, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[0], err)
	}
	val64, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	val := uint32(val64)

	dev, err := openDevice()
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer dev.Close()

	if maskArg != "" {
		mask64, err := strconv.ParseUint(maskArg, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid mask %q: %w", maskArg, err)
		}
		if err := dev.IO().MaskWrite32(off, uint32(mask64), val); err != nil {
			return fmt.Errorf("mask-write 0x%x: %w", off, err)
		}
	} else if err := dev.IO().Write32(off, val); err != nil {
		return fmt.Errorf("write 0x%x: %w", off, err)
	}

	printVerbose("Wrote 0x%08x to 0x%08x\n", val, off)
	return nil
}
