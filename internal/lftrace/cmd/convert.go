package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"lftrace/internal/csvout"
	"lftrace/internal/trace"
)

type summary struct {
	TopLevel string
	Objects  int
	Batches  int
	Records  int64
	Bytes    int64
}

// outputPath returns where the CSV for trace file in is written: the trace
// name with its extension replaced by .csv, in outDir if set.
func outputPath(in, outDir string) string {
	base := filepath.Base(in)
	ext := filepath.Ext(base)
	name := base + ".csv"
	if ext != "" && ext != ".csv" {
		name = strings.TrimSuffix(base, ext) + ".csv"
	}
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, name)
}

// openTrace opens a trace file and decodes its header.
func openTrace(path string, l trace.Layout, lg *log.Logger) (*os.File, *trace.Decoder, *trace.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open trace: %w", err)
	}
	dec, err := trace.NewDecoder(f, trace.WithLayout(l), trace.WithLogger(lg.With("file", filepath.Base(path))))
	if err != nil {
		f.Close()
		return nil, nil, nil, err
	}
	h, err := dec.ReadHeader()
	if err != nil {
		f.Close()
		return nil, nil, nil, err
	}
	return f, dec, h, nil
}

// convertFile writes the records of trace file in as CSV to out. The output
// file is only created once the header has been decoded, and is removed again
// if any later record cannot be converted.
func convertFile(ctx context.Context, in, out string, l trace.Layout, lg *log.Logger) (sum summary, err error) {
	f, dec, h, err := openTrace(in, l, lg)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	o, err := os.Create(out)
	if err != nil {
		return sum, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := o.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(out); rerr != nil {
				lg.Warn("Failed to remove partial output", "output", out, "error", rerr)
			}
		}
	}()

	w := csvout.NewWriter(o, h, l.RecordLayout())
	if err := w.WriteHeader(); err != nil {
		return sum, err
	}
	err = dec.Each(func(rec []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return w.Write(rec)
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}

	stats := dec.Stats()
	sum = summary{
		TopLevel: h.TopLevelName(),
		Objects:  h.Symbols.Len(),
		Batches:  stats.Batches,
		Records:  stats.Records,
		Bytes:    stats.Bytes,
	}
	if err != nil {
		lg.Warn("Conversion stopped", "file", in, "rows", w.Rows(), "error", err)
		return sum, err
	}
	lg.Debug("Converted trace", "file", in, "output", out, "rows", w.Rows(), "top", sum.TopLevel)
	return sum, nil
}
