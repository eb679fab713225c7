// Package tracetest builds trace streams for tests, including malformed ones.
package tracetest

import (
	"bytes"
	"os"

	"lftrace/internal/trace"
)

// Writer appends trace fields in a given layout. Every method returns the
// Writer so a trace can be spelled out in one expression.
type Writer struct {
	buf    bytes.Buffer
	layout trace.Layout
}

// NewWriter returns a Writer for traces in layout l.
func NewWriter(l trace.Layout) *Writer {
	return &Writer{layout: l}
}

// Int64 appends an 8-byte integer.
func (w *Writer) Int64(v int64) *Writer {
	var b [8]byte
	w.layout.ByteOrder.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
	return w
}

// Int32 appends a 4-byte integer.
func (w *Writer) Int32(v int32) *Writer {
	var b [4]byte
	w.layout.ByteOrder.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
	return w
}

// Pointer appends a pointer-width value.
func (w *Writer) Pointer(a trace.Address) *Writer {
	if w.layout.PointerSize == 4 {
		return w.Int32(int32(uint32(a)))
	}
	return w.Int64(int64(a))
}

// Name appends s followed by a zero byte.
func (w *Writer) Name(s string) *Writer {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
	return w
}

// Raw appends b verbatim.
func (w *Writer) Raw(b ...byte) *Writer {
	w.buf.Write(b)
	return w
}

// Descriptor appends one symbol table entry.
func (w *Writer) Descriptor(d trace.Descriptor) *Writer {
	return w.Pointer(d.Self).Pointer(d.Trigger).Int32(int32(d.Kind)).Name(d.Name)
}

// Header appends a complete header declaring exactly descs.
func (w *Writer) Header(start int64, descs ...trace.Descriptor) *Writer {
	w.Int64(start).Int32(int32(len(descs)))
	for _, d := range descs {
		w.Descriptor(d)
	}
	return w
}

// Batch appends a batch holding records. Each record is padded with zeros or
// cut to the layout's record size.
func (w *Writer) Batch(records ...[]byte) *Writer {
	w.Int32(int32(len(records)))
	for _, r := range records {
		w.buf.Write(w.Record(r))
	}
	return w
}

// Record returns b fitted to the layout's record size.
func (w *Writer) Record(b []byte) []byte {
	rec := make([]byte, w.layout.RecordSize)
	copy(rec, b)
	return rec
}

// Filled returns a record whose every byte is fill.
func (w *Writer) Filled(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, w.layout.RecordSize)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns a copy of the stream written so far.
func (w *Writer) Bytes() []byte {
	return bytes.Clone(w.buf.Bytes())
}

// Reader returns a reader over a copy of the stream.
func (w *Writer) Reader() *bytes.Reader {
	return bytes.NewReader(w.Bytes())
}

// WriteFile stores the stream at path.
func (w *Writer) WriteFile(path string) error {
	return os.WriteFile(path, w.buf.Bytes(), 0o644)
}
