package trace

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedHeader is matched by every error raised while reading the
	// header: truncation, a negative object count or an unknown kind tag.
	ErrMalformedHeader = errors.New("malformed trace header")

	// ErrMalformedBatch is matched by every error raised while reading a
	// batch after the header, except the clean end of stream.
	ErrMalformedBatch = errors.New("malformed trace batch")
)

// DecodeError is a fatal decoding failure. Once returned the decoder is
// unusable and every later call returns the same error.
type DecodeError struct {
	Category error  // ErrMalformedHeader or ErrMalformedBatch
	Phase    string // what was being read
	Offset   int64  // stream offset where the failing read began
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d: %v", e.Category, e.Phase, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{e.Category, e.Err}
}

// short maps a clean EOF inside a structure to io.ErrUnexpectedEOF.
func short(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
