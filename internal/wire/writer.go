package wire

import (
	"io"

	"github.com/wippyai/metaform/errors"
)

// Pre-encoded structural JSON tokens. Emitting these as constants keeps the
// escape logic out of the hot path and guarantees uppercase hex on the wire.
const (
	tokObjectOpen  = "%7B"
	tokObjectClose = "%7D"
	tokArrayOpen   = "%5B"
	tokArrayClose  = "%5D"
	tokColon       = "%3A"
	tokComma       = "%2C"
)

// flushThreshold bounds the scratch buffer when a sink is attached. Output
// accumulates up to roughly this many bytes between sink writes, keeping
// memory independent of total output size.
const flushThreshold = 4096

// Writer streams encoded bytes into an io.Writer through a scratch buffer.
// With a nil sink it accumulates everything in the buffer instead, which is
// the in-memory marshal path. The zero value is not usable; construct with
// NewWriter or Reset a pooled instance.
//
// A Writer is the single percent-encoding decorator for one encode: every
// layer above appends through it and none re-wraps it.
type Writer struct {
	out io.Writer
	buf []byte
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Reset points the writer at a new sink and drops buffered output. The
// scratch buffer's capacity is retained for reuse.
func (w *Writer) Reset(out io.Writer) {
	w.out = out
	w.buf = w.buf[:0]
}

// Bytes returns the buffered output. Meaningful only for sink-less writers,
// where nothing is ever flushed; the slice aliases the scratch buffer and is
// invalidated by Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Cap reports the scratch buffer capacity, used by pools to drop writers
// that have grown past the recycling limit.
func (w *Writer) Cap() int {
	return cap(w.buf)
}

// Flush writes all buffered bytes to the sink. A sink failure surfaces as a
// sink error with the cause preserved; buffered bytes are kept so the
// failure does not silently drop output, but the encode is expected to
// abort.
func (w *Writer) Flush() error {
	if w.out == nil || len(w.buf) == 0 {
		return nil
	}
	if _, err := w.out.Write(w.buf); err != nil {
		return errors.Sink(err)
	}
	w.buf = w.buf[:0]
	return nil
}

func (w *Writer) maybeFlush() error {
	if w.out == nil || len(w.buf) < flushThreshold {
		return nil
	}
	return w.Flush()
}

// WriteAmpersand writes the raw pair separator. Structural form characters
// are never percent-encoded.
func (w *Writer) WriteAmpersand() error {
	w.buf = append(w.buf, '&')
	return w.maybeFlush()
}

// WriteEquals writes the raw key/value separator.
func (w *Writer) WriteEquals() error {
	w.buf = append(w.buf, '=')
	return w.maybeFlush()
}

// WriteNull writes the JSON null literal. All four letters are unreserved.
func (w *Writer) WriteNull() error {
	w.buf = append(w.buf, "null"...)
	return w.maybeFlush()
}

// WriteBool writes true or false.
func (w *Writer) WriteBool(v bool) error {
	if v {
		w.buf = append(w.buf, "true"...)
	} else {
		w.buf = append(w.buf, "false"...)
	}
	return w.maybeFlush()
}

// WriteQuote writes the percent-encoded double quote delimiting a JSON
// string.
func (w *Writer) WriteQuote() error {
	w.buf = append(w.buf, escQuote...)
	return w.maybeFlush()
}

func (w *Writer) WriteColon() error {
	w.buf = append(w.buf, tokColon...)
	return w.maybeFlush()
}

func (w *Writer) WriteComma() error {
	w.buf = append(w.buf, tokComma...)
	return w.maybeFlush()
}

func (w *Writer) WriteObjectOpen() error {
	w.buf = append(w.buf, tokObjectOpen...)
	return w.maybeFlush()
}

func (w *Writer) WriteObjectClose() error {
	w.buf = append(w.buf, tokObjectClose...)
	return w.maybeFlush()
}

func (w *Writer) WriteArrayOpen() error {
	w.buf = append(w.buf, tokArrayOpen...)
	return w.maybeFlush()
}

func (w *Writer) WriteArrayClose() error {
	w.buf = append(w.buf, tokArrayClose...)
	return w.maybeFlush()
}
