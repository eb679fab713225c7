package trace

import (
	"io"

	"github.com/pkg/errors"
)

// ReadBatch reads the next batch of records into the working buffer and
// returns how many it holds. At the clean end of the stream it returns
// (0, io.EOF). The header is read first if it has not been yet.
//
// The records returned by Records and Record are overwritten by the next
// call.
func (d *Decoder) ReadBatch() (int, error) {
	if d.header == nil {
		if _, err := d.ReadHeader(); err != nil {
			return 0, err
		}
	}
	if d.err != nil {
		return 0, d.err
	}
	n, err := d.readBatch()
	if err != nil {
		d.n, d.err = 0, err
		return 0, err
	}
	d.n = n
	d.stats.Batches++
	d.stats.Records += int64(n)
	return n, nil
}

func (d *Decoder) readBatch() (int, error) {
	off := d.r.off
	b := d.scratch[:4]
	if n, err := io.ReadFull(d.r, b); err != nil {
		if err == io.EOF && n == 0 {
			return 0, io.EOF
		}
		return 0, &DecodeError{Category: ErrMalformedBatch, Phase: "batch count", Offset: off, Err: short(err)}
	}

	count := int32(d.layout.ByteOrder.Uint32(b))
	if count < 0 || int(count) > d.layout.Capacity {
		return 0, &DecodeError{
			Category: ErrMalformedBatch,
			Phase:    "batch count",
			Offset:   off,
			Err:      errors.Errorf("batch of %d records does not fit capacity %d", count, d.layout.Capacity),
		}
	}
	if count == 0 {
		return 0, nil
	}

	if d.buf == nil {
		d.buf = make([]byte, d.layout.Capacity*d.layout.RecordSize)
	}
	off = d.r.off
	size := int(count) * d.layout.RecordSize
	if _, err := io.ReadFull(d.r, d.buf[:size]); err != nil {
		return 0, &DecodeError{
			Category: ErrMalformedBatch,
			Phase:    "batch records",
			Offset:   off,
			Err:      errors.Wrapf(short(err), "want %d records", count),
		}
	}
	return int(count), nil
}

// Record returns record i of the current batch.
func (d *Decoder) Record(i int) []byte {
	if i < 0 || i >= d.n {
		panic("trace: record index out of range")
	}
	size := d.layout.RecordSize
	return d.buf[i*size : (i+1)*size : (i+1)*size]
}

// Records returns the records of the current batch.
func (d *Decoder) Records() [][]byte {
	d.views = d.views[:0]
	for i := 0; i < d.n; i++ {
		d.views = append(d.views, d.Record(i))
	}
	return d.views
}

// Each reads every remaining batch and calls fn for each record in order. It
// returns nil at the clean end of the stream, the first error from fn, or the
// decoding error that stopped it.
func (d *Decoder) Each(fn func(rec []byte) error) error {
	for {
		n, err := d.ReadBatch()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := fn(d.Record(i)); err != nil {
				return err
			}
		}
	}
}
