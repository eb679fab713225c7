// Package trace decodes binary trace files written by the Lingua Franca
// runtime: a header holding the symbol table of traced objects, followed by
// length-prefixed batches of fixed-size event records.
package trace

import (
	"bufio"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Header is the immutable preamble of a trace file.
type Header struct {
	StartTime int64 // instant the trace started, in nanoseconds
	Symbols   *SymbolTable
}

// TopLevelName is the name of the top-level reactor.
func (h *Header) TopLevelName() string {
	return h.Symbols.TopLevelName()
}

// Stats counts what a Decoder has consumed so far.
type Stats struct {
	Batches int
	Records int64
	Bytes   int64
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLayout decodes using l instead of DefaultLayout.
func WithLayout(l Layout) Option {
	return func(d *Decoder) { d.layout = l }
}

// WithLogger sets the logger used for the header listing and warnings.
func WithLogger(lg *log.Logger) Option {
	return func(d *Decoder) {
		if lg != nil {
			d.log = lg
		}
	}
}

// Decoder reads one trace stream front to back. It owns the stream position,
// the decoded header and the batch working buffer. A Decoder must not be used
// from multiple goroutines.
type Decoder struct {
	r      *offsetReader
	layout Layout
	log    *log.Logger

	scratch [8]byte
	name    []byte

	header *Header
	buf    []byte   // Capacity * RecordSize bytes, allocated on first batch
	views  [][]byte // records of the current batch
	n      int

	stats Stats
	err   error
}

// NewDecoder returns a decoder reading from r. If r is a *bufio.Reader it is
// used directly, otherwise r is buffered.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	buf, ok := r.(*bufio.Reader)
	if !ok {
		buf = bufio.NewReader(r)
	}
	d := &Decoder{
		r:      &offsetReader{Reader: buf},
		layout: DefaultLayout(),
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.layout.Validate(); err != nil {
		return nil, errors.Wrap(err, "new decoder")
	}
	return d, nil
}

// Layout returns the layout the decoder was configured with.
func (d *Decoder) Layout() Layout {
	return d.layout
}

// Err returns the error that stopped the decoder, or nil if it is still
// usable or reached a clean end of stream.
func (d *Decoder) Err() error {
	if d.err == io.EOF {
		return nil
	}
	return d.err
}

// Stats returns counters for what has been decoded so far.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.Bytes = d.r.off
	return s
}

// ReadHeader decodes the header. It must be the first read from the stream;
// later calls return the same header without I/O.
func (d *Decoder) ReadHeader() (*Header, error) {
	if d.header != nil {
		return d.header, nil
	}
	if d.err != nil {
		return nil, d.err
	}
	h, err := d.readHeader()
	if err != nil {
		d.err = err
		return nil, err
	}
	d.header = h
	d.logHeader(h)
	return h, nil
}

func (d *Decoder) readHeader() (*Header, error) {
	b, err := d.readFixed(8, ErrMalformedHeader, "start time")
	if err != nil {
		return nil, err
	}
	start := int64(d.layout.ByteOrder.Uint64(b))

	off := d.r.off
	b, err = d.readFixed(4, ErrMalformedHeader, "object count")
	if err != nil {
		return nil, err
	}
	count := int32(d.layout.ByteOrder.Uint32(b))
	if count < 0 {
		return nil, &DecodeError{
			Category: ErrMalformedHeader,
			Phase:    "object count",
			Offset:   off,
			Err:      errors.Errorf("negative count %d", count),
		}
	}

	descs := make([]Descriptor, 0, min(int(count), objectPrealloc))
	for i := 0; i < int(count); i++ {
		desc, err := d.readDescriptor(i)
		if err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}
	return &Header{StartTime: start, Symbols: NewSymbolTable(descs)}, nil
}

func (d *Decoder) readDescriptor(i int) (Descriptor, error) {
	var desc Descriptor
	var err error
	if desc.Self, err = d.readPointer(i, "address"); err != nil {
		return desc, err
	}
	if desc.Trigger, err = d.readPointer(i, "trigger"); err != nil {
		return desc, err
	}

	off := d.r.off
	b, err := d.readFixed(4, ErrMalformedHeader, phase(i, "kind"))
	if err != nil {
		return desc, err
	}
	desc.Kind = Kind(int32(d.layout.ByteOrder.Uint32(b)))
	if !desc.Kind.valid() {
		return desc, &DecodeError{
			Category: ErrMalformedHeader,
			Phase:    phase(i, "kind"),
			Offset:   off,
			Err:      errors.Errorf("unknown object kind %d", int32(desc.Kind)),
		}
	}

	desc.Name, err = d.readName(phase(i, "name"))
	return desc, err
}

func (d *Decoder) readPointer(i int, field string) (Address, error) {
	b, err := d.readFixed(d.layout.PointerSize, ErrMalformedHeader, phase(i, field))
	if err != nil {
		return 0, err
	}
	if d.layout.PointerSize == 4 {
		return Address(d.layout.ByteOrder.Uint32(b)), nil
	}
	return Address(d.layout.ByteOrder.Uint64(b)), nil
}

// readFixed reads exactly n <= 8 bytes into the scratch buffer.
func (d *Decoder) readFixed(n int, category error, what string) ([]byte, error) {
	off := d.r.off
	b := d.scratch[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, &DecodeError{Category: category, Phase: what, Offset: off, Err: short(err)}
	}
	return b, nil
}

func (d *Decoder) logHeader(h *Header) {
	d.log.Info("Read trace header",
		"start", h.StartTime,
		"objects", h.Symbols.Len(),
		"top", h.TopLevelName())
	for i, desc := range h.Symbols.descs {
		d.log.Debug("Traced object",
			"index", i,
			"address", desc.Self,
			"trigger", desc.Trigger,
			"kind", desc.Kind,
			"name", desc.Name)
	}
}

func phase(i int, field string) string {
	return "descriptor " + strconv.Itoa(i) + " " + field
}

type offsetReader struct {
	*bufio.Reader
	off int64
}

func (r *offsetReader) Read(p []byte) (n int, err error) {
	n, err = r.Reader.Read(p)
	r.off += int64(n)
	return
}

func (r *offsetReader) ReadByte() (b byte, err error) {
	b, err = r.Reader.ReadByte()
	if err == nil {
		r.off++
	}
	return
}
