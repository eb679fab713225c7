package config

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lftrace/internal/trace"
	"lftrace/internal/trace/record"
)

func TestLayout(t *testing.T) {
	def := trace.DefaultLayout()
	tests := []struct {
		name    string
		cfg     Config
		check   func(t *testing.T, l trace.Layout)
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  Config{},
			check: func(t *testing.T, l trace.Layout) {
				assert.Equal(t, def.PointerSize, l.PointerSize)
				assert.Equal(t, def.RecordSize, l.RecordSize)
			},
		},
		{
			name: "32-bit big endian",
			cfg:  Config{PointerSize: 4, ByteOrder: "big"},
			check: func(t *testing.T, l trace.Layout) {
				assert.Equal(t, binary.BigEndian, l.ByteOrder)
				assert.Equal(t, 136, l.RecordSize)
			},
		},
		{
			name: "padded record size",
			cfg:  Config{PointerSize: 8, RecordSize: 256, ByteOrder: "Little"},
			check: func(t *testing.T, l trace.Layout) {
				assert.Equal(t, 256, l.RecordSize)
				assert.Equal(t, binary.LittleEndian, l.ByteOrder)
			},
		},
		{
			name: "record size equal to the record",
			cfg:  Config{PointerSize: 4, RecordSize: 136},
			check: func(t *testing.T, l trace.Layout) {
				assert.Equal(t, 136, l.RecordSize)
			},
		},
		{
			name: "limits and strict names",
			cfg:  Config{Capacity: 16, MaxName: 32, StrictNames: true},
			check: func(t *testing.T, l trace.Layout) {
				assert.Equal(t, 16, l.Capacity)
				assert.Equal(t, 32, l.MaxName)
				assert.Equal(t, trace.NameOverflowStop, l.NameOverflow)
			},
		},
		{name: "bad byte order", cfg: Config{ByteOrder: "middle"}, wantErr: true},
		{name: "bad pointer size", cfg: Config{PointerSize: 2}, wantErr: true},
		{name: "negative capacity", cfg: Config{Capacity: -1}, wantErr: true},
		{name: "record smaller than fields", cfg: Config{PointerSize: 8, RecordSize: 64}, wantErr: true},
		{name: "record one byte short", cfg: Config{PointerSize: 8, RecordSize: record.Size(8) - 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := tt.cfg.Layout()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, l)
		})
	}
}
