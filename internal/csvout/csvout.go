// Package csvout renders decoded trace records as comma-separated values,
// one row per record, with runtime addresses resolved to object names.
package csvout

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"lftrace/internal/trace"
	"lftrace/internal/trace/record"
)

// Columns is the header row written by WriteHeader.
var Columns = []string{
	"Event",
	"Reactor",
	"Source",
	"Destination",
	"Elapsed Logical Time",
	"Microstep",
	"Elapsed Physical Time",
	"Trigger",
	"Extra Delay",
}

// Labels used when an address has no entry in the symbol table.
const (
	NoTrigger   = "NO TRIGGER"
	NoReactor   = "NO REACTOR"
	Wait        = "WAIT"
	AdvanceTime = "ADVANCE TIME"
)

// Writer writes records from one trace.
type Writer struct {
	w      *csv.Writer
	header *trace.Header
	layout record.Layout
	rows   int
}

// NewWriter returns a Writer resolving names against h and decoding records
// with l.
func NewWriter(w io.Writer, h *trace.Header, l record.Layout) *Writer {
	return &Writer{w: csv.NewWriter(w), header: h, layout: l}
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader() error {
	return w.w.Write(Columns)
}

// Write decodes rec and writes it as one row.
func (w *Writer) Write(rec []byte) error {
	ev, err := w.layout.Decode(rec)
	if err != nil {
		return fmt.Errorf("row %d: %w", w.rows+1, err)
	}
	if err := w.w.Write(w.Row(ev)); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Row lays out ev as CSV fields. Times are relative to the trace start.
func (w *Writer) Row(ev record.Event) []string {
	start := w.header.StartTime
	return []string{
		ev.Type.String(),
		w.reactor(ev),
		strconv.Itoa(int(ev.Reaction)),
		strconv.Itoa(int(ev.Worker)),
		strconv.FormatInt(ev.LogicalTime-start, 10),
		strconv.FormatUint(uint64(ev.Microstep), 10),
		strconv.FormatInt(ev.PhysicalTime-start, 10),
		w.trigger(ev),
		strconv.FormatInt(ev.ExtraDelay, 10),
	}
}

func (w *Writer) reactor(ev record.Event) string {
	addr := trace.Address(ev.Pointer)
	if name, ok := w.header.Symbols.ReactorName(addr); ok {
		return name
	}
	switch ev.Type {
	case record.UserEvent, record.UserValue:
		if name, ok := w.header.Symbols.UserName(addr); ok {
			return name
		}
	case record.WorkerWaitStarts, record.WorkerWaitEnds:
		return Wait
	case record.WorkerAdvancingTimeStarts, record.WorkerAdvancingTimeEnds:
		return AdvanceTime
	}
	if addr == 0 {
		return NoReactor
	}
	return addr.String()
}

func (w *Writer) trigger(ev record.Event) string {
	addr := trace.Address(ev.Trigger)
	if addr == 0 {
		return NoTrigger
	}
	if name, ok := w.header.Symbols.TriggerName(addr); ok {
		return name
	}
	return addr.String()
}

// Rows returns the number of records written.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
