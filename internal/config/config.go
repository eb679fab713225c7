// Package config holds the settings of the lftrace command and turns them
// into a trace layout.
package config

import (
	"encoding/binary"
	"fmt"
	"strings"

	"lftrace/internal/trace"
	"lftrace/internal/trace/record"
)

// Config represents configuration for the lftrace tool. Zero values select
// the defaults of the host the tool runs on.
type Config struct {
	Debug       bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	OutputDir   string `json:"outputDir,omitempty" jsonschema:"title=Output Directory,description=Directory for CSV files; defaults to next to each trace"`
	PointerSize int    `json:"pointerSize,omitempty" jsonschema:"title=Pointer Size,description=Pointer width of the traced host in bytes,enum=0,enum=4,enum=8"`
	ByteOrder   string `json:"byteOrder,omitempty" jsonschema:"title=Byte Order,description=Byte order of the traced host,enum=native,enum=little,enum=big"`
	RecordSize  int    `json:"recordSize,omitempty" jsonschema:"title=Record Size,description=Bytes per event record including trailing padding; derived from the pointer size when zero,minimum=0"`
	Capacity    int    `json:"capacity,omitempty" jsonschema:"title=Capacity,description=Maximum records per batch,minimum=0"`
	MaxName     int    `json:"maxName,omitempty" jsonschema:"title=Name Bound,description=Object name buffer size including the terminator,minimum=0"`
	StrictNames bool   `json:"strictNames,omitempty" jsonschema:"title=Strict Names,description=Do not resynchronize after an over-length object name"`
	CPUProfile  string `json:"cpuProfile,omitempty" jsonschema:"title=CPU Profile,description=Path for CPU profile output"`
}

// Layout converts the configuration to a validated trace layout.
func (c Config) Layout() (trace.Layout, error) {
	l := trace.DefaultLayout()

	switch strings.ToLower(c.ByteOrder) {
	case "", "native":
	case "little":
		l.ByteOrder = binary.LittleEndian
	case "big":
		l.ByteOrder = binary.BigEndian
	default:
		return l, fmt.Errorf("unknown byte order %q", c.ByteOrder)
	}

	if c.PointerSize != 0 {
		if c.PointerSize != 4 && c.PointerSize != 8 {
			return l, fmt.Errorf("pointer size %d, want 4 or 8", c.PointerSize)
		}
		l.PointerSize = c.PointerSize
		l.RecordSize = record.Size(c.PointerSize)
	}
	if c.RecordSize != 0 {
		// Records must hold every trace_record_t field; trailing padding is
		// skipped.
		if want := record.Size(l.PointerSize); c.RecordSize < want {
			return l, fmt.Errorf("record size %d is smaller than the %d-byte record of %d-byte pointers",
				c.RecordSize, want, l.PointerSize)
		}
		l.RecordSize = c.RecordSize
	}
	if c.Capacity != 0 {
		l.Capacity = c.Capacity
	}
	if c.MaxName != 0 {
		l.MaxName = c.MaxName
	}
	if c.StrictNames {
		l.NameOverflow = trace.NameOverflowStop
	}

	if err := l.Validate(); err != nil {
		return l, err
	}
	return l, nil
}
