package metaform

import (
	"encoding"
	"math"
	"reflect"
	"sort"
	"strconv"

	structform "github.com/elastic/go-structform"

	"github.com/wippyai/metaform/errors"
	"github.com/wippyai/metaform/internal/wire"
)

var (
	variantType       = reflect.TypeOf(Variant{})
	charType          = reflect.TypeOf(Char(0))
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// fold walks v with reflection and replays it as a visitor event stream.
// The top-level value must resolve to a struct, map, or data-carrying
// variant; nil resolves to an empty body. Nothing is written before the
// shape check passes, so a rejected value leaves the output untouched.
func fold(vs *Visitor, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}

	t := rv.Type()
	if t == variantType {
		vt := rv.Interface().(Variant)
		if vt.shape == shapeUnit {
			return errors.New(errors.PhaseFold, errors.KindTopLevel).
				GoType(t.String()).
				Detail("unit variant %q carries no field", vt.name).
				Build()
		}
		return foldVariant(vs, vt, 0)
	}
	if t.Implements(textMarshalerType) {
		return errors.NotObject(errors.PhaseFold, t.String())
	}

	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		return foldValue(vs, rv, 0)
	}
	return errors.NotObject(errors.PhaseFold, t.String())
}

// foldValue emits the events for a single value. depth counts reflection
// recursion so pointer cycles that never grow the encoder stack still
// terminate with a depth error.
func foldValue(vs *Visitor, rv reflect.Value, depth int) error {
	if depth > vs.json.maxDepth {
		return errors.Depth(errors.PhaseFold, vs.errPath(), vs.json.maxDepth)
	}
	if !rv.IsValid() {
		return vs.OnNil()
	}

	t := rv.Type()
	if t == variantType {
		return foldVariant(vs, rv.Interface().(Variant), depth)
	}
	if t == charType {
		return vs.OnString(string(rune(rv.Int())))
	}
	// Checked before pointer unwrapping so pointer-receiver marshalers
	// are honored. A nil marshaler pointer folds as absent.
	if t.Implements(textMarshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return vs.OnNil()
		}
		return foldTextMarshaler(vs, rv)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return vs.OnNil()
		}
		return foldValue(vs, rv.Elem(), depth+1)

	case reflect.Bool:
		return vs.OnBool(rv.Bool())

	case reflect.Int:
		return vs.OnInt(int(rv.Int()))
	case reflect.Int8:
		return vs.OnInt8(int8(rv.Int()))
	case reflect.Int16:
		return vs.OnInt16(int16(rv.Int()))
	case reflect.Int32:
		return vs.OnInt32(int32(rv.Int()))
	case reflect.Int64:
		return vs.OnInt64(rv.Int())

	case reflect.Uint:
		return vs.OnUint(uint(rv.Uint()))
	case reflect.Uint8:
		return vs.OnUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		return vs.OnUint16(uint16(rv.Uint()))
	case reflect.Uint32:
		return vs.OnUint32(uint32(rv.Uint()))
	case reflect.Uint64, reflect.Uintptr:
		return vs.OnUint64(rv.Uint())

	case reflect.Float32:
		return vs.OnFloat32(float32(rv.Float()))
	case reflect.Float64:
		return vs.OnFloat64(rv.Float())

	case reflect.String:
		return vs.OnString(rv.String())

	case reflect.Slice:
		if rv.IsNil() {
			return vs.OnNil()
		}
		return foldArray(vs, rv, depth)
	case reflect.Array:
		return foldArray(vs, rv, depth)

	case reflect.Map:
		if rv.IsNil() {
			return vs.OnNil()
		}
		return foldMap(vs, rv, depth)

	case reflect.Struct:
		return foldStruct(vs, rv, depth)
	}

	return errors.New(errors.PhaseFold, errors.KindUnsupported).
		GoType(t.String()).
		Path(vs.errPath()...).
		Detail("no form representation").
		Build()
}

func foldStruct(vs *Visitor, rv reflect.Value, depth int) error {
	fields := cachedFields(rv.Type())
	if err := vs.OnObjectStart(len(fields), structform.AnyType); err != nil {
		return err
	}
	for _, f := range fields {
		fv := rv.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := vs.OnKey(f.name); err != nil {
			return err
		}
		if err := foldValue(vs, fv, depth+1); err != nil {
			return err
		}
	}
	return vs.OnObjectFinished()
}

func foldArray(vs *Visitor, rv reflect.Value, depth int) error {
	n := rv.Len()
	if err := vs.OnArrayStart(n, structform.AnyType); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := foldValue(vs, rv.Index(i), depth+1); err != nil {
			return err
		}
	}
	return vs.OnArrayFinished()
}

type mapEntry struct {
	key string
	val reflect.Value
}

// foldMap emits map entries sorted by key text so equal maps always
// produce identical bodies.
func foldMap(vs *Visitor, rv reflect.Value, depth int) error {
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := keyText(vs, iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, mapEntry{key: key, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	if err := vs.OnObjectStart(len(entries), structform.AnyType); err != nil {
		return err
	}
	for _, e := range entries {
		if err := vs.OnKey(e.key); err != nil {
			return err
		}
		if err := foldValue(vs, e.val, depth+1); err != nil {
			return err
		}
	}
	return vs.OnObjectFinished()
}

// keyText stringifies a map key. Strings, integers, booleans, finite
// floats, Char, and TextMarshaler keys are accepted; everything else has
// no defined key text.
func keyText(vs *Visitor, rv reflect.Value) (string, error) {
	if rv.Type() == charType {
		return string(rune(rv.Int())), nil
	}
	if rv.Type().Implements(textMarshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", errors.KeyType(errors.PhaseFold, vs.errPath(), rv.Type().String())
		}
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", errors.Wrap(errors.PhaseFold, errors.KindKeyType, err, "marshaling map key text")
		}
		return string(text), nil
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Float32:
		return floatKeyText(vs, rv.Float(), 32)
	case reflect.Float64:
		return floatKeyText(vs, rv.Float(), 64)
	case reflect.Interface:
		if !rv.IsNil() {
			return keyText(vs, rv.Elem())
		}
	}
	return "", errors.KeyType(errors.PhaseFold, vs.errPath(), rv.Type().String())
}

// floatKeyText renders a float key with the same canonical text used for
// float values so a key and a value holding the same number never differ.
func floatKeyText(vs *Visitor, f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.NonFinite(errors.PhaseFold, vs.errPath(), f)
	}
	return string(wire.AppendFloat(nil, f, bits)), nil
}

func foldTextMarshaler(vs *Visitor, rv reflect.Value) error {
	text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return errors.Wrap(errors.PhaseFold, errors.KindUnsupported, err, "marshaling value text")
	}
	return vs.OnString(string(text))
}

// foldVariant renders a variant as a single-key object named after the
// variant. Unit variants carry no payload and become a bare name string.
func foldVariant(vs *Visitor, vt Variant, depth int) error {
	switch vt.shape {
	case shapeUnit:
		return vs.OnUnitVariant(vt.name)

	case shapeNewtype:
		if err := vs.OnObjectStart(1, structform.AnyType); err != nil {
			return err
		}
		if err := vs.OnKey(vt.name); err != nil {
			return err
		}
		if err := foldValue(vs, reflect.ValueOf(vt.payload), depth+1); err != nil {
			return err
		}
		return vs.OnObjectFinished()

	case shapeTuple:
		if err := vs.OnObjectStart(1, structform.AnyType); err != nil {
			return err
		}
		if err := vs.OnKey(vt.name); err != nil {
			return err
		}
		if err := vs.OnArrayStart(len(vt.elems), structform.AnyType); err != nil {
			return err
		}
		for _, el := range vt.elems {
			if err := foldValue(vs, reflect.ValueOf(el), depth+1); err != nil {
				return err
			}
		}
		if err := vs.OnArrayFinished(); err != nil {
			return err
		}
		return vs.OnObjectFinished()

	case shapeStruct:
		pv := reflect.ValueOf(vt.payload)
		for pv.Kind() == reflect.Pointer || pv.Kind() == reflect.Interface {
			if pv.IsNil() {
				break
			}
			pv = pv.Elem()
		}
		if !pv.IsValid() || (pv.Kind() != reflect.Struct && pv.Kind() != reflect.Map) {
			return errors.New(errors.PhaseFold, errors.KindUnsupported).
				GoType(typeName(vt.payload)).
				Path(vs.errPath()...).
				Detail("struct variant %q needs a struct or map payload", vt.name).
				Build()
		}
		if err := vs.OnObjectStart(1, structform.AnyType); err != nil {
			return err
		}
		if err := vs.OnKey(vt.name); err != nil {
			return err
		}
		if err := foldValue(vs, pv, depth+1); err != nil {
			return err
		}
		return vs.OnObjectFinished()
	}

	return errors.State(vs.errPath(), "variant with unknown shape")
}

// errPath reports where in the output the encoder currently is, for error
// reporting only.
func (v *Visitor) errPath() []string {
	if v.json.active() {
		return v.json.path()
	}
	return v.path()
}

// typeName names a value's dynamic type without panicking on nil.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// isEmptyValue reports whether a field tagged omitempty should be skipped.
func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
