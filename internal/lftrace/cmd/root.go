package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lftrace/internal/config"
	"lftrace/internal/lftrace/log"
	"lftrace/internal/logging"
)

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().Int("pointer-size", 0, "Pointer width of the traced host in bytes (4 or 8, default native)")
	rootCmd.PersistentFlags().String("byte-order", "native", "Byte order of the traced host (native, little, big)")
	rootCmd.PersistentFlags().Int("record-size", 0, "Bytes per event record, at least the size for the pointer width; extra trailing bytes are skipped (default derived from pointer size)")
	rootCmd.PersistentFlags().Int("capacity", 0, "Maximum records per batch (default 2048)")
	rootCmd.PersistentFlags().Int("max-name", 0, "Object name buffer size including terminator (default 1024)")
	rootCmd.PersistentFlags().Bool("strict-names", false, "Do not resynchronize after an over-length object name")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().StringP("output-dir", "o", "", "Directory for CSV files (default next to each trace)")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")

	rootCmd.AddCommand(symbolsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "lftrace [file...]",
	Short: "Convert Lingua Franca trace files to CSV",
	Long: `lftrace decodes binary trace files written by the Lingua Franca runtime.
Each trace is converted to a CSV file with one row per traced event and
runtime addresses resolved to reactor and trigger names.`,
	Example: `
# Convert a trace, writing Main.csv next to it
lftrace Main.lft

# Convert traces recorded on a 32-bit big-endian board
lftrace --pointer-size 4 --byte-order big -o out/ *.lft
  `,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		layout, err := cfg.Layout()
		if err != nil {
			return fmt.Errorf("invalid layout: %w", err)
		}

		log.Setup(cmd.ErrOrStderr(), cfg.Debug)
		lg := logging.NewLogger(cfg.Debug)
		defer lg.Close()

		if cfg.CPUProfile != "" {
			f, err := os.Create(cfg.CPUProfile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		if cfg.OutputDir != "" {
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		for _, in := range args {
			out := outputPath(in, cfg.OutputDir)
			sum, err := convertFile(cmd.Context(), in, out, layout, lg.Logger)
			if err != nil {
				return fmt.Errorf("convert %s: %w", in, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records in %d batches (%s) -> %s\n",
				in, sum.Records, sum.Batches, humanize.Bytes(uint64(sum.Bytes)), out)
		}
		return nil
	},
}

// configFromFlags collects the command line into a Config.
func configFromFlags(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	var err error
	flags := cmd.Flags()
	if cfg.Debug, err = flags.GetBool("debug"); err != nil {
		return cfg, err
	}
	if cfg.PointerSize, err = flags.GetInt("pointer-size"); err != nil {
		return cfg, err
	}
	if cfg.ByteOrder, err = flags.GetString("byte-order"); err != nil {
		return cfg, err
	}
	if cfg.RecordSize, err = flags.GetInt("record-size"); err != nil {
		return cfg, err
	}
	if cfg.Capacity, err = flags.GetInt("capacity"); err != nil {
		return cfg, err
	}
	if cfg.MaxName, err = flags.GetInt("max-name"); err != nil {
		return cfg, err
	}
	if cfg.StrictNames, err = flags.GetBool("strict-names"); err != nil {
		return cfg, err
	}
	// Only the root command converts files.
	if flags.Lookup("output-dir") != nil {
		cfg.OutputDir, _ = flags.GetString("output-dir")
		cfg.CPUProfile, _ = flags.GetString("cpuprofile")
	}
	return cfg, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func Execute() {
	// fang renders help and errors for humans; bypass it when output is
	// piped so scripts get plain cobra output.
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
