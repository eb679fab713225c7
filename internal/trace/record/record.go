// Package record describes the fixed-size event record written by the
// Lingua Franca runtime's tracer (trace_record_t) for a given pointer width
// and byte order.
package record

import (
	"encoding/binary"
	"fmt"
)

// TriggerListSize is the length of the triggered_by and effects lists.
const TriggerListSize = 10

// EventType identifies what a record traces.
type EventType int32

const (
	ReactionStarts EventType = iota
	ReactionEnds
	ScheduleCalled
	UserEvent
	UserValue
	WorkerWaitStarts
	WorkerWaitEnds
	WorkerAdvancingTimeStarts
	WorkerAdvancingTimeEnds
)

var eventNames = [...]string{
	"Reaction starts",
	"Reaction ends",
	"Schedule called",
	"User-defined event",
	"User-defined valued event",
	"Worker wait starts",
	"Worker wait ends",
	"Worker advancing time starts",
	"Worker advancing time ends",
}

func (e EventType) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Unknown event %d", int32(e))
}

// Event is one decoded record. Pointer fields are raw runtime addresses.
type Event struct {
	Type         EventType
	Pointer      uint64
	Reaction     int32
	Worker       int32
	LogicalTime  int64
	Microstep    uint32
	PhysicalTime int64
	Trigger      uint64
	ExtraDelay   int64
	TriggeredBy  [TriggerListSize]uint64
	Effects      [TriggerListSize]uint64
}

// Layout holds the field offsets of a record for one pointer width.
type Layout struct {
	order binary.ByteOrder
	ptr   int
	size  int

	offType, offPointer, offReaction, offWorker    int
	offLogical, offMicrostep, offPhysical          int
	offTrigger, offDelay, offTriggered, offEffects int
}

// NewLayout lays out trace_record_t under natural alignment, capped at
// 8 bytes, the way the C compilers the runtime targets do. With 4-byte
// pointers this is the ARM32 layout: i386 aligns int64 struct fields to 4,
// so its records are laid out differently and are not described here.
func NewLayout(order binary.ByteOrder, pointerSize int) Layout {
	l := Layout{order: order, ptr: pointerSize}
	var off, maxAlign int
	field := func(size, align int) int {
		if align > 8 {
			align = 8
		}
		if align > maxAlign {
			maxAlign = align
		}
		off = alignUp(off, align)
		at := off
		off += size
		return at
	}
	l.offType = field(4, 4)
	l.offPointer = field(pointerSize, pointerSize)
	l.offReaction = field(4, 4)
	l.offWorker = field(4, 4)
	l.offLogical = field(8, 8)
	l.offMicrostep = field(4, 4)
	l.offPhysical = field(8, 8)
	l.offTrigger = field(pointerSize, pointerSize)
	l.offDelay = field(8, 8)
	l.offTriggered = field(TriggerListSize*pointerSize, pointerSize)
	l.offEffects = field(TriggerListSize*pointerSize, pointerSize)
	l.size = alignUp(off, maxAlign)
	return l
}

// Size returns the encoded size of a record in bytes.
func Size(pointerSize int) int {
	return NewLayout(binary.NativeEndian, pointerSize).size
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

func (l Layout) Size() int        { return l.size }
func (l Layout) PointerSize() int { return l.ptr }

// Decode reads an event out of b, which must hold at least Size bytes.
func (l Layout) Decode(b []byte) (Event, error) {
	if len(b) < l.size {
		return Event{}, fmt.Errorf("record has %d bytes, want %d", len(b), l.size)
	}
	ev := Event{
		Type:         EventType(l.order.Uint32(b[l.offType:])),
		Pointer:      l.pointer(b, l.offPointer),
		Reaction:     int32(l.order.Uint32(b[l.offReaction:])),
		Worker:       int32(l.order.Uint32(b[l.offWorker:])),
		LogicalTime:  int64(l.order.Uint64(b[l.offLogical:])),
		Microstep:    l.order.Uint32(b[l.offMicrostep:]),
		PhysicalTime: int64(l.order.Uint64(b[l.offPhysical:])),
		Trigger:      l.pointer(b, l.offTrigger),
		ExtraDelay:   int64(l.order.Uint64(b[l.offDelay:])),
	}
	for i := 0; i < TriggerListSize; i++ {
		ev.TriggeredBy[i] = l.pointer(b, l.offTriggered+i*l.ptr)
		ev.Effects[i] = l.pointer(b, l.offEffects+i*l.ptr)
	}
	return ev, nil
}

// Encode writes ev in this layout. Padding bytes are zero.
func (l Layout) Encode(ev Event) []byte {
	b := make([]byte, l.size)
	l.order.PutUint32(b[l.offType:], uint32(ev.Type))
	l.putPointer(b, l.offPointer, ev.Pointer)
	l.order.PutUint32(b[l.offReaction:], uint32(ev.Reaction))
	l.order.PutUint32(b[l.offWorker:], uint32(ev.Worker))
	l.order.PutUint64(b[l.offLogical:], uint64(ev.LogicalTime))
	l.order.PutUint32(b[l.offMicrostep:], ev.Microstep)
	l.order.PutUint64(b[l.offPhysical:], uint64(ev.PhysicalTime))
	l.putPointer(b, l.offTrigger, ev.Trigger)
	l.order.PutUint64(b[l.offDelay:], uint64(ev.ExtraDelay))
	for i := 0; i < TriggerListSize; i++ {
		l.putPointer(b, l.offTriggered+i*l.ptr, ev.TriggeredBy[i])
		l.putPointer(b, l.offEffects+i*l.ptr, ev.Effects[i])
	}
	return b
}

func (l Layout) pointer(b []byte, off int) uint64 {
	if l.ptr == 4 {
		return uint64(l.order.Uint32(b[off:]))
	}
	return l.order.Uint64(b[off:])
}

func (l Layout) putPointer(b []byte, off int, v uint64) {
	if l.ptr == 4 {
		l.order.PutUint32(b[off:], uint32(v))
		return
	}
	l.order.PutUint64(b[off:], v)
}
