package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erieaton-amd/aie-rt/aie"
	"github.com/erieaton-amd/aie-rt/aie/rsc"
)

func init() {
	rootCmd.AddCommand(newComboCmd())
}

func newComboCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combo",
		Short: "Configure and start a combo event on one tile module",
		Long: `The combo command runs the full combo event flow against the selected
backend: it translates the named input events, reserves combiner slots,
programs the combiner registers, and reports the derived combo events.
With the sim backend the programmed state persists in the register file.

Input events: none, true, user0..user3, broadcast0, lock-stall,
stream-stall, perf0, dma-finish0. Ops: and, or, xor.

Example:
  aiectl combo --col 1 --row 2 --mod core --events user0,user1 --ops and --sim-file regs.bin
  aiectl combo --col 0 --row 0 --mod shim --events user0,user1,user2,user3 --ops or,and,xor --sim-file regs.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombo(cmd)
		},
	}
	cmd.Flags().Uint8("col", 0, "Tile column")
	cmd.Flags().Uint8("row", 0, "Tile row (0 is the shim row)")
	cmd.Flags().String("mod", "core", "Module kind (core, mem, shim)")
	cmd.Flags().String("events", "", "Comma-separated input event names (2-4)")
	cmd.Flags().String("ops", "", "Comma-separated combiner ops (1-3)")
	cmd.Flags().Bool("release", false, "Stop and release the resource before exiting")
	return cmd
}

func runCombo(cmd *cobra.Command) error {
	col, _ := cmd.Flags().GetUint8("col")
	row, _ := cmd.Flags().GetUint8("row")
	modName, _ := cmd.Flags().GetString("mod")
	eventsArg, _ := cmd.Flags().GetString("events")
	opsArg, _ := cmd.Flags().GetString("ops")
	release, _ := cmd.Flags().GetBool("release")

	mod, err := parseModule(modName)
	if err != nil {
		return err
	}
	events, err := parseEvents(eventsArg)
	if err != nil {
		return err
	}
	ops, err := parseOps(opsArg)
	if err != nil {
		return err
	}

	dev, err := openDevice()
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer dev.Close()

	pool := rsc.NewPool(dev.Cols())
	combo, err := rsc.NewComboEvent(dev, pool, aie.At(col, row), mod, len(events))
	if err != nil {
		return err
	}
	if err := combo.SetEvents(events, ops); err != nil {
		return err
	}
	if err := combo.Reserve(); err != nil {
		return err
	}
	if err := combo.Start(); err != nil {
		return err
	}
	printVerbose("Programmed combiners, slots %v\n", combo.Slots())

	derived, err := combo.Events()
	if err != nil {
		return err
	}

	if release {
		defer func() {
			if err := combo.Release(); err != nil {
				printVerbose("Release failed: %v\n", err)
			}
		}()
	}

	if jsonOut {
		names := make([]string, len(derived))
		for i, ev := range derived {
			names[i] = eventName(ev)
		}
		return printJSON(map[string]interface{}{
			"col":    col,
			"row":    row,
			"mod":    mod.String(),
			"slots":  combo.Slots(),
			"events": names,
		})
	}

	printInfo("\nCombo event at (%d,%d) %s:\n", col, row, mod)
	printInfo("  Slots: %v\n", combo.Slots())
	printInfo("  Derived events:\n")
	for _, ev := range derived {
		printInfo("    %s\n", eventName(ev))
	}
	return nil
}

func parseModule(name string) (aie.ModuleKind, error) {
	switch strings.ToLower(name) {
	case "core":
		return aie.ModCore, nil
	case "mem":
		return aie.ModMem, nil
	case "shim":
		return aie.ModShim, nil
	default:
		return 0, fmt.Errorf("unknown module %q (want core, mem, or shim)", name)
	}
}

var eventNames = map[string]aie.Event{
	"none":         aie.EventNone,
	"true":         aie.EventTrue,
	"user0":        aie.EventUser0,
	"user1":        aie.EventUser1,
	"user2":        aie.EventUser2,
	"user3":        aie.EventUser3,
	"broadcast0":   aie.EventBroadcast0,
	"lock-stall":   aie.EventLockStall,
	"stream-stall": aie.EventStreamStall,
	"perf0":        aie.EventPerfThreshold0,
	"dma-finish0":  aie.EventDMAFinish0,
}

func parseEvents(arg string) ([]aie.Event, error) {
	if arg == "" {
		return nil, fmt.Errorf("--events is required")
	}
	parts := strings.Split(arg, ",")
	events := make([]aie.Event, len(parts))
	for i, p := range parts {
		ev, ok := eventNames[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return nil, fmt.Errorf("unknown event %q", p)
		}
		events[i] = ev
	}
	return events, nil
}

func parseOps(arg string) ([]aie.ComboOp, error) {
	if arg == "" {
		return nil, fmt.Errorf("--ops is required")
	}
	parts := strings.Split(arg, ",")
	ops := make([]aie.ComboOp, len(parts))
	for i, p := range parts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "and":
			ops[i] = aie.OpAnd
		case "or":
			ops[i] = aie.OpOr
		case "xor":
			ops[i] = aie.OpXor
		case "none":
			ops[i] = aie.OpNone
		default:
			return nil, fmt.Errorf("unknown op %q (want and, or, xor)", p)
		}
	}
	return ops, nil
}

// eventName renders a derived event for display. Combo events carry their
// module and combiner index; anything else falls back to the input name.
func eventName(ev aie.Event) string {
	switch {
	case ev >= aie.EventComboCore0 && ev <= aie.EventComboCore3:
		return fmt.Sprintf("combo-core%d", int(ev-aie.EventComboCore0))
	case ev >= aie.EventComboMem0 && ev <= aie.EventComboMem3:
		return fmt.Sprintf("combo-mem%d", int(ev-aie.EventComboMem0))
	case ev >= aie.EventComboShim0 && ev <= aie.EventComboShim3:
		return fmt.Sprintf("combo-shim%d", int(ev-aie.EventComboShim0))
	}
	for name, e := range eventNames {
		if e == ev {
			return name
		}
	}
	return fmt.Sprintf("event(%d)", int(ev))
}
