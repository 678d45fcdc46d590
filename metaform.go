package metaform

import (
	"io"
)

// Marshal returns the form+JSON encoding of v.
//
// v must be a struct, a map, a data-carrying Variant, or a pointer to
// one of those. Each top-level entry becomes one key=value pair joined
// with '&'. Scalar entries are written as percent-encoded plain text;
// nested values are written as percent-encoded JSON. A nil value or nil
// pointer encodes to an empty body.
//
// Struct fields are encoded in declaration order under their `form` tag
// name (falling back to the Go field name); map entries are sorted by
// key. Fields holding a nil pointer, nil interface, or nil map or slice
// are left out of the body entirely.
func Marshal(v any) ([]byte, error) {
	w := getWriter(nil)
	defer putWriter(w)

	var vs Visitor
	vs.init(w)
	if err := fold(&vs, v); err != nil {
		return nil, err
	}
	if err := vs.Finish(); err != nil {
		return nil, err
	}

	out := make([]byte, len(w.Bytes()))
	copy(out, w.Bytes())
	return out, nil
}

// EncodeToString is Marshal returning a string.
func EncodeToString(v any) (string, error) {
	w := getWriter(nil)
	defer putWriter(w)

	var vs Visitor
	vs.init(w)
	if err := fold(&vs, v); err != nil {
		return "", err
	}
	if err := vs.Finish(); err != nil {
		return "", err
	}
	return string(w.Bytes()), nil
}

// An Encoder writes form+JSON bodies to an output stream.
type Encoder struct {
	vs  *Visitor
	out io.Writer
}

// NewEncoder returns a new encoder that writes to out.
func NewEncoder(out io.Writer) *Encoder {
	return &Encoder{vs: NewVisitor(out), out: out}
}

// SetNullFields controls whether absent nested fields are rendered as
// JSON null instead of being dropped. Top-level pairs are always dropped
// when absent, and array elements always render as null, regardless of
// this setting.
func (e *Encoder) SetNullFields(on bool) {
	e.vs.SetNullFields(on)
}

// SetMaxDepth bounds value nesting. Values of n below one restore
// DefaultMaxDepth.
func (e *Encoder) SetMaxDepth(n int) {
	e.vs.SetMaxDepth(n)
}

// Encode writes the form+JSON encoding of v to the stream. Each call
// produces one complete body; the encoder writes no separator between
// bodies, framing is the caller's concern.
func (e *Encoder) Encode(v any) error {
	e.vs.Reset(e.out)
	if err := fold(e.vs, v); err != nil {
		return err
	}
	return e.vs.Finish()
}
