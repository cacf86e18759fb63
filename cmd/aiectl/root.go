package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erieaton-amd/aie-rt/aie"
	"github.com/erieaton-amd/aie-rt/aie/regio"
	"github.com/erieaton-amd/aie-rt/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool

	// Device flags
	backendName string
	simFile     string
	cols        uint8
	rows        uint8
	baseAddr    uint64
)

var rootCmd = &cobra.Command{
	Use:   "aiectl",
	Short: "Inspect and program AI engine tile array registers",
	Long: `aiectl opens an AI engine register window through a selectable
transport backend and exposes raw register access plus combo event
configuration. The sim backend operates on a plain register file, so every
command works without hardware.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Enabled: verbose && !quiet,
			Level:   slog.LevelDebug,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	rootCmd.PersistentFlags().
		StringVar(&backendName, "backend", "sim", "Register transport backend (sim, mem, stub)")
	rootCmd.PersistentFlags().
		StringVar(&simFile, "sim-file", "", "Register file for the sim backend")
	rootCmd.PersistentFlags().Uint8Var(&cols, "cols", 0, "Array columns (0 = default)")
	rootCmd.PersistentFlags().Uint8Var(&rows, "rows", 0, "Array rows including shim (0 = default)")
	rootCmd.PersistentFlags().Uint64Var(&baseAddr, "base-addr", 0, "Base address added to every register offset")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDevice opens the device described by the global flags.
func openDevice() (*aie.Device, error) {
	kind, err := parseBackend(backendName)
	if err != nil {
		return nil, err
	}
	if kind == regio.KindSim && simFile == "" {
		return nil, fmt.Errorf("the sim backend requires --sim-file")
	}
	printVerbose("Opening device: backend=%s cols=%d rows=%d\n", kind, cols, rows)
	return aie.Open(aie.Config{
		Cols:     cols,
		Rows:     rows,
		Backend:  kind,
		SimPath:  simFile,
		BaseAddr: baseAddr,
	})
}

func parseBackend(name string) (regio.Kind, error) {
	switch strings.ToLower(name) {
	case "sim":
		return regio.KindSim, nil
	case "mem":
		return regio.KindMem, nil
	case "stub":
		return regio.KindStub, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want sim, mem, or stub)", name)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
