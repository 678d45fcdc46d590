package metaform

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/metaform/errors"
	"github.com/wippyai/metaform/internal/wire"
)

// jsonFrame is one level of the embedded JSON writer's explicit stack.
// Object frames defer their key until the value event arrives so that an
// absent value can drop the whole pair; array frames count elements for
// error paths.
type jsonFrame struct {
	key    string
	idx    int
	array  bool
	first  bool
	hasKey bool
}

// jsonVisitor renders one compound value as JSON text, every byte
// percent-encoded exactly once through the shared wire.Writer. It receives
// the same flat event stream as the form dispatcher; depth lives in the
// frame stack, not the call stack, so nesting is bounded only by maxDepth.
type jsonVisitor struct {
	w          *wire.Writer
	stack      []jsonFrame
	topKey     string // form key of the pair being rendered, for error paths
	nullFields bool
	maxDepth   int
}

func (j *jsonVisitor) active() bool {
	return len(j.stack) > 0
}

func (j *jsonVisitor) reset() {
	j.stack = j.stack[:0]
	j.topKey = ""
}

// path assembles a best-effort field path for diagnostics: the form key,
// then one segment per open frame (key for objects, element index for
// arrays).
func (j *jsonVisitor) path() []string {
	p := make([]string, 0, len(j.stack)+1)
	if j.topKey != "" {
		p = append(p, j.topKey)
	}
	for i := range j.stack {
		f := &j.stack[i]
		if f.array {
			p = append(p, strconv.Itoa(f.idx))
		} else if f.key != "" {
			p = append(p, f.key)
		}
	}
	return p
}

// beginElem runs the separator protocol for the current frame before a
// value is rendered: comma between elements, then for objects the deferred
// key and colon. A no-op at the outermost level, where the dispatcher has
// already committed the form key.
func (j *jsonVisitor) beginElem() error {
	if len(j.stack) == 0 {
		return nil
	}
	f := &j.stack[len(j.stack)-1]
	if f.array {
		if !f.first {
			f.idx++
			if err := j.w.WriteComma(); err != nil {
				return err
			}
		}
		f.first = false
		return nil
	}
	if !f.hasKey {
		return errors.State(j.path(), "value event before object key")
	}
	if !f.first {
		if err := j.w.WriteComma(); err != nil {
			return err
		}
	}
	f.first = false
	f.hasKey = false
	if !utf8.ValidString(f.key) {
		return errors.InvalidUTF8(errors.PhaseEncode, j.path(), []byte(f.key))
	}
	if err := j.str(f.key); err != nil {
		return err
	}
	return j.w.WriteColon()
}

// str renders a JSON string: quote, escaped body, quote. UTF-8 validity is
// the caller's responsibility.
func (j *jsonVisitor) str(s string) error {
	if err := j.w.WriteQuote(); err != nil {
		return err
	}
	if err := j.w.WriteEscaped(s); err != nil {
		return err
	}
	return j.w.WriteQuote()
}

func (j *jsonVisitor) push(array bool) error {
	if len(j.stack) >= j.maxDepth {
		return errors.Depth(errors.PhaseEncode, j.path(), j.maxDepth)
	}
	j.stack = append(j.stack, jsonFrame{array: array, first: true})
	if array {
		return j.w.WriteArrayOpen()
	}
	return j.w.WriteObjectOpen()
}

func (j *jsonVisitor) onObjectStart() error {
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.push(false)
}

func (j *jsonVisitor) onObjectFinished() error {
	if len(j.stack) == 0 {
		return errors.State(nil, "object close without matching open")
	}
	f := &j.stack[len(j.stack)-1]
	if f.array {
		return errors.State(j.path(), "object close inside array")
	}
	if f.hasKey {
		return errors.State(j.path(), "object close with dangling key")
	}
	j.stack = j.stack[:len(j.stack)-1]
	return j.w.WriteObjectClose()
}

func (j *jsonVisitor) onArrayStart() error {
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.push(true)
}

func (j *jsonVisitor) onArrayFinished() error {
	if len(j.stack) == 0 {
		return errors.State(nil, "array close without matching open")
	}
	if !j.stack[len(j.stack)-1].array {
		return errors.State(j.path(), "array close inside object")
	}
	j.stack = j.stack[:len(j.stack)-1]
	return j.w.WriteArrayClose()
}

func (j *jsonVisitor) onKey(s string) error {
	if len(j.stack) == 0 {
		return errors.State(nil, "key event outside object")
	}
	f := &j.stack[len(j.stack)-1]
	if f.array {
		return errors.State(j.path(), "key event inside array")
	}
	if f.hasKey {
		return errors.State(j.path(), "key event with key already pending")
	}
	f.key = s
	f.hasKey = true
	return nil
}

// onNull renders null, except that a pending object key is dropped whole
// under the default omit policy: absent fields vanish from nested objects
// the same way they vanish from the form level.
func (j *jsonVisitor) onNull() error {
	if len(j.stack) > 0 {
		f := &j.stack[len(j.stack)-1]
		if !f.array && f.hasKey && !j.nullFields {
			f.hasKey = false
			return nil
		}
	}
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.w.WriteNull()
}

func (j *jsonVisitor) onBool(b bool) error {
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.w.WriteBool(b)
}

func (j *jsonVisitor) onString(s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, j.path(), []byte(s))
	}
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.str(s)
}

func (j *jsonVisitor) onInt(i int64) error {
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.w.WriteInt(i)
}

func (j *jsonVisitor) onUint(u uint64) error {
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.w.WriteUint(u)
}

func (j *jsonVisitor) onFloat(f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.NonFinite(errors.PhaseEncode, j.path(), f)
	}
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.w.WriteFloat(f, bits)
}

// onUnitVariant renders the variant name as a JSON string. Unit variants
// are compounds, not raw scalars, in every position.
func (j *jsonVisitor) onUnitVariant(name string) error {
	if !utf8.ValidString(name) {
		return errors.InvalidUTF8(errors.PhaseEncode, j.path(), []byte(name))
	}
	if err := j.beginElem(); err != nil {
		return err
	}
	return j.str(name)
}
