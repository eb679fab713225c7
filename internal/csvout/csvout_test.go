package csvout_test

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lftrace/internal/csvout"
	"lftrace/internal/trace"
	"lftrace/internal/trace/record"
)

func testHeader() *trace.Header {
	return &trace.Header{
		StartTime: 1000,
		Symbols: trace.NewSymbolTable([]trace.Descriptor{
			{Self: 0x10, Kind: trace.KindReactor, Name: "Main"},
			{Self: 0x20, Kind: trace.KindReactor, Name: "Main.a, b"},
			{Self: 0x20, Trigger: 0x28, Kind: trace.KindTrigger, Name: "Main.a.t"},
			{Self: 0x40, Kind: trace.KindUser, Name: "my event"},
		}),
	}
}

func TestRow(t *testing.T) {
	w := csvout.NewWriter(nil, testHeader(), record.NewLayout(binary.LittleEndian, 8))
	tests := []struct {
		name string
		ev   record.Event
		want []string
	}{
		{
			name: "resolved reaction",
			ev: record.Event{Type: record.ReactionStarts, Pointer: 0x20, Reaction: 1, Worker: 2,
				LogicalTime: 1500, Microstep: 3, PhysicalTime: 1600, Trigger: 0x28},
			want: []string{"Reaction starts", "Main.a, b", "1", "2", "500", "3", "600", "Main.a.t", "0"},
		},
		{
			name: "unresolved addresses render raw",
			ev:   record.Event{Type: record.ScheduleCalled, Pointer: 0x99, Trigger: 0x98, LogicalTime: 1000, PhysicalTime: 1000, ExtraDelay: 7},
			want: []string{"Schedule called", "0x99", "0", "0", "0", "0", "0", "0x98", "7"},
		},
		{
			name: "worker wait",
			ev:   record.Event{Type: record.WorkerWaitStarts, Worker: 4, LogicalTime: 1000, PhysicalTime: 2000},
			want: []string{"Worker wait starts", csvout.Wait, "0", "4", "0", "0", "1000", csvout.NoTrigger, "0"},
		},
		{
			name: "advancing time",
			ev:   record.Event{Type: record.WorkerAdvancingTimeEnds, LogicalTime: 1000, PhysicalTime: 1000},
			want: []string{"Worker advancing time ends", csvout.AdvanceTime, "0", "0", "0", "0", "0", csvout.NoTrigger, "0"},
		},
		{
			name: "user value",
			ev:   record.Event{Type: record.UserValue, Pointer: 0x40, LogicalTime: 1000, PhysicalTime: 1000, ExtraDelay: 42},
			want: []string{"User-defined valued event", "my event", "0", "0", "0", "0", "0", csvout.NoTrigger, "42"},
		},
		{
			name: "no reactor",
			ev:   record.Event{Type: record.ReactionEnds, LogicalTime: 1000, PhysicalTime: 1000},
			want: []string{"Reaction ends", csvout.NoReactor, "0", "0", "0", "0", "0", csvout.NoTrigger, "0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Row(tt.ev))
		})
	}
}

func TestWrite(t *testing.T) {
	l := record.NewLayout(binary.LittleEndian, 8)
	var buf bytes.Buffer
	w := csvout.NewWriter(&buf, testHeader(), l)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(l.Encode(record.Event{Type: record.ReactionStarts, Pointer: 0x20, LogicalTime: 2000, PhysicalTime: 2000})))
	require.NoError(t, w.Write(l.Encode(record.Event{Type: record.ReactionEnds, Pointer: 0x10, LogicalTime: 2000, PhysicalTime: 2100})))
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Rows())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvout.Columns, rows[0])
	// The comma in the name survives quoting.
	assert.Equal(t, "Main.a, b", rows[1][1])
	assert.Equal(t, "Main", rows[2][1])
	assert.Equal(t, "1100", rows[2][6])
}

func TestWriteShortRecord(t *testing.T) {
	w := csvout.NewWriter(&bytes.Buffer{}, testHeader(), record.NewLayout(binary.LittleEndian, 8))
	assert.Error(t, w.Write(make([]byte, 10)))
	assert.Equal(t, 0, w.Rows())
}
