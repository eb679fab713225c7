package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"lftrace/internal/lftrace/styles"
	"lftrace/internal/logging"
	"lftrace/internal/trace"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List the objects declared in a trace header",
	Long: `List the symbol table of a trace file: every traced reactor, trigger and
user-defined object with its runtime address and name.`,
	Example: `
# Show the traced objects
lftrace symbols Main.lft
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		layout, err := cfg.Layout()
		if err != nil {
			return fmt.Errorf("invalid layout: %w", err)
		}

		lg := logging.NewLogger(cfg.Debug)
		defer lg.Close()

		f, _, h, err := openTrace(args[0], layout, lg.Logger)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		defer f.Close()

		out := cmd.OutOrStdout()
		printSymbols(out, h, isTerminal(out))
		return nil
	},
}

// printSymbols writes the symbol table of h as a table.
func printSymbols(w io.Writer, h *trace.Header, styled bool) {
	title := fmt.Sprintf("%s: %d objects, start time %d", h.TopLevelName(), h.Symbols.Len(), h.StartTime)
	if styled {
		title = styles.Title.Render(title)
	}
	fmt.Fprintln(w, title)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Index", "Kind", "Address", "Trigger", "Name"})
	for i, d := range h.Symbols.Descriptors() {
		kind, self, trigger := d.Kind.String(), d.Self.String(), ""
		if d.Kind == trace.KindTrigger {
			trigger = d.Trigger.String()
		}
		if styled {
			kind = styles.Kind(d.Kind)
			self = styles.Address.Render(self)
			if trigger != "" {
				trigger = styles.Address.Render(trigger)
			}
		}
		table.Append([]string{strconv.Itoa(i), kind, self, trigger, d.Name})
	}
	table.Render()
}
