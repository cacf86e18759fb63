package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erieaton-amd/aie-rt/internal/format"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report device geometry and backend details",
		Long: `The info command opens the device and reports the array geometry,
the selected transport backend, and the register window size.

Example:
  aiectl info --sim-file regs.bin
  aiectl info --backend mem --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	return cmd
}

func runInfo() error {
	dev, err := openDevice()
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer dev.Close()

	window := format.WindowSize(dev.Cols())

	if jsonOut {
		return printJSON(map[string]interface{}{
			"backend":      backendName,
			"cols":         dev.Cols(),
			"rows":         dev.Rows(),
			"compute_rows": dev.Rows() - 1,
			"window_size":  window,
			"slots":        format.SlotsPerModule,
		})
	}

	printInfo("\nDevice Information:\n")
	printInfo("  Backend: %s\n", backendName)
	printInfo("  Columns: %d\n", dev.Cols())
	printInfo("  Rows: %d (1 shim + %d compute)\n", dev.Rows(), dev.Rows()-1)
	printInfo("  Register window: %d bytes\n", window)
	printInfo("  Combo slots per module: %d\n", format.SlotsPerModule)
	return nil
}
