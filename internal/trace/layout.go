package trace

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"

	"lftrace/internal/trace/record"
)

// Constants mirrored from the runtime's tracer and trace utilities.
const (
	// DefaultCapacity is the most records a single batch may declare
	// (TRACE_BUFFER_CAPACITY).
	DefaultCapacity = 2048

	// DefaultMaxName bounds a decoded object name, terminator included.
	DefaultMaxName = 1024

	// objectPrealloc caps the symbol table allocation made from the declared
	// object count before any descriptor has been read (TRACE_OBJECT_TABLE_SIZE).
	objectPrealloc = 1024
)

// NameOverflow selects what happens when a name does not fit in MaxName.
type NameOverflow int

const (
	// NameOverflowResync truncates the name and discards the rest of it up
	// to its terminator, keeping the stream aligned.
	NameOverflowResync NameOverflow = iota

	// NameOverflowStop truncates the name and leaves the remaining bytes in
	// the stream. Everything decoded after it is misaligned. This matches the
	// C trace utilities.
	NameOverflowStop
)

func (p NameOverflow) String() string {
	if p == NameOverflowStop {
		return "stop"
	}
	return "resync"
}

// Layout describes the widths and limits used to decode a trace file. Traces
// are written in the byte order and pointer width of the traced host.
type Layout struct {
	ByteOrder    binary.ByteOrder
	PointerSize  int // 4 or 8
	RecordSize   int // bytes per event record
	Capacity     int // records per batch
	MaxName      int // name buffer size, terminator included
	NameOverflow NameOverflow
}

// DefaultLayout returns the layout of a trace written on this host.
func DefaultLayout() Layout {
	ptr := bits.UintSize / 8
	return Layout{
		ByteOrder:   binary.NativeEndian,
		PointerSize: ptr,
		RecordSize:  record.Size(ptr),
		Capacity:    DefaultCapacity,
		MaxName:     DefaultMaxName,
	}
}

// Validate reports whether the layout can be used to decode a trace.
func (l Layout) Validate() error {
	switch {
	case l.ByteOrder == nil:
		return errors.New("layout: byte order is not set")
	case l.PointerSize != 4 && l.PointerSize != 8:
		return errors.Errorf("layout: pointer size %d, want 4 or 8", l.PointerSize)
	case l.RecordSize <= 0:
		return errors.Errorf("layout: record size %d must be positive", l.RecordSize)
	case l.Capacity <= 0:
		return errors.Errorf("layout: capacity %d must be positive", l.Capacity)
	case l.MaxName < 1:
		return errors.Errorf("layout: name bound %d must be at least 1", l.MaxName)
	case l.NameOverflow != NameOverflowResync && l.NameOverflow != NameOverflowStop:
		return errors.Errorf("layout: unknown name overflow policy %d", l.NameOverflow)
	}
	return nil
}

// RecordLayout returns the field layout of event records in this trace.
func (l Layout) RecordLayout() record.Layout {
	return record.NewLayout(l.ByteOrder, l.PointerSize)
}
