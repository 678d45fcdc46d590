package metaform

import (
	"io"
	"math"
	"unicode/utf8"

	structform "github.com/elastic/go-structform"

	"github.com/wippyai/metaform/errors"
	"github.com/wippyai/metaform/internal/wire"
)

// DefaultMaxDepth bounds compound nesting inside a single encoded value.
// Deeply nested input past the limit fails with a depth error instead of
// exhausting memory or, on the reflect path, the call stack.
const DefaultMaxDepth = 10000

type formState uint8

const (
	stateIdle formState = iota // before the top-level object start
	stateOpen                  // inside the top-level object
	stateDone                  // top-level object finished
)

// Visitor is the streaming receiving end of the encoder: a
// structform.Visitor that turns a flat event stream into the form+JSON wire
// format. Scalars in top-level value position render as raw percent-encoded
// text; compounds switch the event route into the embedded JSON writer,
// which shares the same percent-encoding wire.Writer so the whole JSON blob
// is encoded exactly once.
//
// Top-level keys are deferred: a key commits to the wire only when its
// value turns out to be present, which is how absent fields contribute
// neither key nor separator.
//
// A Visitor encodes one body per use; Reset prepares it for the next. It is
// not safe for concurrent use.
type Visitor struct {
	w      *wire.Writer
	json   jsonVisitor
	state  formState
	key    string
	hasKey bool
	wrote  bool // at least one pair committed; next pair is preceded by '&'
}

var _ structform.Visitor = (*Visitor)(nil)

// NewVisitor returns a Visitor streaming into out.
func NewVisitor(out io.Writer) *Visitor {
	v := &Visitor{}
	v.init(wire.NewWriter(out))
	return v
}

func (v *Visitor) init(w *wire.Writer) {
	v.w = w
	v.json.w = w
	v.json.maxDepth = DefaultMaxDepth
	v.json.reset()
	v.state = stateIdle
	v.key = ""
	v.hasKey = false
	v.wrote = false
}

// Reset discards all state and points the visitor at a new sink. The
// nesting stack and scratch buffer are retained for reuse.
func (v *Visitor) Reset(out io.Writer) {
	v.w.Reset(out)
	v.json.reset()
	v.state = stateIdle
	v.key = ""
	v.hasKey = false
	v.wrote = false
}

// SetNullFields switches absent values nested in objects from the default
// omit policy to explicit JSON null. Absent top-level fields are always
// skipped regardless of this setting.
func (v *Visitor) SetNullFields(on bool) {
	v.json.nullFields = on
}

// SetMaxDepth overrides DefaultMaxDepth. Values below one restore the
// default.
func (v *Visitor) SetMaxDepth(n int) {
	if n < 1 {
		n = DefaultMaxDepth
	}
	v.json.maxDepth = n
}

// Finish validates that the event stream described a complete body and
// flushes buffered output to the sink. An empty stream is a valid empty
// body.
func (v *Visitor) Finish() error {
	if v.json.active() {
		return errors.State(v.json.path(), "finish inside a nested value")
	}
	if v.state == stateOpen {
		return errors.State(nil, "finish before top-level object finished")
	}
	v.state = stateDone
	return v.w.Flush()
}

func (v *Visitor) path() []string {
	if v.key != "" {
		return []string{v.key}
	}
	return nil
}

// commitKey writes the deferred pair prefix: separator if needed, the
// percent-encoded key, and '='. Only called once the value is known to be
// present.
func (v *Visitor) commitKey() error {
	if !utf8.ValidString(v.key) {
		return errors.InvalidUTF8(errors.PhaseEncode, nil, []byte(v.key))
	}
	if v.wrote {
		if err := v.w.WriteAmpersand(); err != nil {
			return err
		}
	}
	if err := v.w.WriteText(v.key); err != nil {
		return err
	}
	if err := v.w.WriteEquals(); err != nil {
		return err
	}
	v.wrote = true
	v.hasKey = false
	v.json.topKey = v.key
	return nil
}

// beginPair guards a value event in top-level position and commits the
// pending key.
func (v *Visitor) beginPair() error {
	if v.state == stateDone {
		return errors.State(nil, "event after top-level object finished")
	}
	if !v.hasKey {
		return errors.State(nil, "value event before key")
	}
	return v.commitKey()
}

// OnObjectStart opens the form itself on first use; in value position it
// commits the key and routes subsequent events into the JSON writer.
func (v *Visitor) OnObjectStart(_ int, _ structform.BaseType) error {
	if v.json.active() {
		return v.json.onObjectStart()
	}
	switch v.state {
	case stateIdle:
		v.state = stateOpen
		return nil
	case stateDone:
		return errors.State(nil, "event after top-level object finished")
	}
	if !v.hasKey {
		return errors.State(nil, "object value before key")
	}
	if err := v.commitKey(); err != nil {
		return err
	}
	return v.json.onObjectStart()
}

func (v *Visitor) OnObjectFinished() error {
	if v.json.active() {
		return v.json.onObjectFinished()
	}
	switch v.state {
	case stateOpen:
		if v.hasKey {
			return errors.State(v.path(), "object finished with dangling key")
		}
		v.state = stateDone
		return nil
	case stateDone:
		return errors.State(nil, "event after top-level object finished")
	}
	return errors.State(nil, "object close without matching open")
}

// OnArrayStart in whole-value position is a shape error: the format has no
// anonymous top-level value. Nothing is written.
func (v *Visitor) OnArrayStart(_ int, _ structform.BaseType) error {
	if v.json.active() {
		return v.json.onArrayStart()
	}
	switch v.state {
	case stateIdle:
		return errors.NotObject(errors.PhaseEncode, "array")
	case stateDone:
		return errors.State(nil, "event after top-level object finished")
	}
	if !v.hasKey {
		return errors.State(nil, "array value before key")
	}
	if err := v.commitKey(); err != nil {
		return err
	}
	return v.json.onArrayStart()
}

func (v *Visitor) OnArrayFinished() error {
	if v.json.active() {
		return v.json.onArrayFinished()
	}
	return errors.State(nil, "array close without matching open")
}

func (v *Visitor) OnKey(s string) error {
	if v.json.active() {
		return v.json.onKey(s)
	}
	switch v.state {
	case stateIdle:
		return errors.State(nil, "key event before object start")
	case stateDone:
		return errors.State(nil, "event after top-level object finished")
	}
	if v.hasKey {
		return errors.State(v.path(), "key event with key already pending")
	}
	v.key = s
	v.hasKey = true
	return nil
}

// OnKeyRef is the zero-copy form of OnKey used by streaming producers.
func (v *Visitor) OnKeyRef(s []byte) error {
	return v.OnKey(string(s))
}

// OnNil skips the pending pair at the top level: absent fields contribute
// no key and no separator. A whole-value nil is a valid empty body.
func (v *Visitor) OnNil() error {
	if v.json.active() {
		return v.json.onNull()
	}
	switch v.state {
	case stateIdle:
		v.state = stateDone
		return nil
	case stateDone:
		return errors.State(nil, "event after top-level object finished")
	}
	if !v.hasKey {
		return errors.State(nil, "value event before key")
	}
	v.hasKey = false
	return nil
}

func (v *Visitor) OnBool(b bool) error {
	if v.json.active() {
		return v.json.onBool(b)
	}
	if v.state == stateIdle {
		return errors.NotObject(errors.PhaseEncode, "bool")
	}
	if err := v.beginPair(); err != nil {
		return err
	}
	return v.w.WriteBool(b)
}

// OnString renders raw percent-encoded text in top-level value position:
// strings under a form key are never JSON-quoted. Nested strings quote and
// escape as usual.
func (v *Visitor) OnString(s string) error {
	if v.json.active() {
		return v.json.onString(s)
	}
	if v.state == stateIdle {
		return errors.NotObject(errors.PhaseEncode, "string")
	}
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, v.path(), []byte(s))
	}
	if err := v.beginPair(); err != nil {
		return err
	}
	return v.w.WriteText(s)
}

// OnStringRef is the zero-copy form of OnString used by streaming
// producers.
func (v *Visitor) OnStringRef(s []byte) error {
	return v.OnString(string(s))
}

// OnUnitVariant renders a unit variant name as a quoted JSON string. A
// unit variant is a compound in every position, including top-level value
// position; as a whole value it is a shape error like any other non-object.
func (v *Visitor) OnUnitVariant(name string) error {
	if v.json.active() {
		return v.json.onUnitVariant(name)
	}
	if v.state == stateIdle {
		return errors.NotObject(errors.PhaseEncode, "unit variant")
	}
	if !utf8.ValidString(name) {
		return errors.InvalidUTF8(errors.PhaseEncode, v.path(), []byte(name))
	}
	if err := v.beginPair(); err != nil {
		return err
	}
	return v.json.str(name)
}

func (v *Visitor) onInt(i int64, label string) error {
	if v.json.active() {
		return v.json.onInt(i)
	}
	if v.state == stateIdle {
		return errors.NotObject(errors.PhaseEncode, label)
	}
	if err := v.beginPair(); err != nil {
		return err
	}
	return v.w.WriteInt(i)
}

func (v *Visitor) onUint(u uint64, label string) error {
	if v.json.active() {
		return v.json.onUint(u)
	}
	if v.state == stateIdle {
		return errors.NotObject(errors.PhaseEncode, label)
	}
	if err := v.beginPair(); err != nil {
		return err
	}
	return v.w.WriteUint(u)
}

func (v *Visitor) onFloat(f float64, bits int, label string) error {
	if v.json.active() {
		return v.json.onFloat(f, bits)
	}
	if v.state == stateIdle {
		return errors.NotObject(errors.PhaseEncode, label)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.NonFinite(errors.PhaseEncode, v.path(), f)
	}
	if err := v.beginPair(); err != nil {
		return err
	}
	return v.w.WriteFloat(f, bits)
}

func (v *Visitor) OnInt8(i int8) error   { return v.onInt(int64(i), "int8") }
func (v *Visitor) OnInt16(i int16) error { return v.onInt(int64(i), "int16") }
func (v *Visitor) OnInt32(i int32) error { return v.onInt(int64(i), "int32") }
func (v *Visitor) OnInt64(i int64) error { return v.onInt(i, "int64") }
func (v *Visitor) OnInt(i int) error     { return v.onInt(int64(i), "int") }

func (v *Visitor) OnByte(b byte) error     { return v.onUint(uint64(b), "byte") }
func (v *Visitor) OnUint8(u uint8) error   { return v.onUint(uint64(u), "uint8") }
func (v *Visitor) OnUint16(u uint16) error { return v.onUint(uint64(u), "uint16") }
func (v *Visitor) OnUint32(u uint32) error { return v.onUint(uint64(u), "uint32") }
func (v *Visitor) OnUint64(u uint64) error { return v.onUint(u, "uint64") }
func (v *Visitor) OnUint(u uint) error     { return v.onUint(uint64(u), "uint") }

func (v *Visitor) OnFloat32(f float32) error { return v.onFloat(float64(f), 32, "float32") }
func (v *Visitor) OnFloat64(f float64) error { return v.onFloat(f, 64, "float64") }
