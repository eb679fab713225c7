package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutSize(t *testing.T) {
	tests := []struct {
		ptr  int
		size int
	}{
		{ptr: 8, size: 224},
		{ptr: 4, size: 136},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.size, Size(tt.ptr), "Size(%d)", tt.ptr)
	}
}

func TestLayoutOffsets64(t *testing.T) {
	l := NewLayout(binary.LittleEndian, 8)
	offsets := map[string][2]int{
		"pointer":      {l.offPointer, 8},
		"reaction":     {l.offReaction, 16},
		"worker":       {l.offWorker, 20},
		"logical":      {l.offLogical, 24},
		"microstep":    {l.offMicrostep, 32},
		"physical":     {l.offPhysical, 40},
		"trigger":      {l.offTrigger, 48},
		"extra delay":  {l.offDelay, 56},
		"triggered by": {l.offTriggered, 64},
		"effects":      {l.offEffects, 144},
	}
	for name, o := range offsets {
		assert.Equal(t, o[1], o[0], "%s offset", name)
	}
}

func TestLayoutOffsets32(t *testing.T) {
	l := NewLayout(binary.LittleEndian, 4)
	// int64 fields stay 8-aligned with 4-byte pointers.
	assert.Equal(t, 16, l.offLogical)
	assert.Equal(t, 32, l.offPhysical)
	assert.Equal(t, 48, l.offDelay)
}

func TestEncodeDecode(t *testing.T) {
	ev := Event{
		Type:         ScheduleCalled,
		Pointer:      0x7f0010,
		Reaction:     2,
		Worker:       -1,
		LogicalTime:  1_000_000,
		Microstep:    3,
		PhysicalTime: 1_000_250,
		Trigger:      0x7f0080,
		ExtraDelay:   500,
	}
	ev.TriggeredBy[0] = 0x7f0090
	ev.Effects[9] = 0x7f00a0

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, ptr := range []int{4, 8} {
			l := NewLayout(order, ptr)
			b := l.Encode(ev)
			require.Len(t, b, l.Size(), "%v/%d", order, ptr)
			got, err := l.Decode(b)
			require.NoError(t, err, "%v/%d", order, ptr)
			assert.Equal(t, ev, got, "%v/%d", order, ptr)
		}
	}
}

func TestDecodePadded(t *testing.T) {
	l := NewLayout(binary.LittleEndian, 8)
	ev := Event{Type: ReactionEnds, Pointer: 0x10, Worker: 3}
	got, err := l.Decode(append(l.Encode(ev), 0xff, 0xff, 0xff, 0xff))
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestDecodeShort(t *testing.T) {
	l := NewLayout(binary.LittleEndian, 8)
	_, err := l.Decode(make([]byte, l.Size()-1))
	assert.Error(t, err)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "Reaction starts", ReactionStarts.String())
	assert.Equal(t, "Worker advancing time ends", WorkerAdvancingTimeEnds.String())
	assert.Equal(t, "Unknown event 42", EventType(42).String())
}
