package metaform

// Char is a character scalar. Go's rune is an alias of int32, so a plain
// rune field encodes as its code point number; wrap it in Char to encode as
// the character's UTF-8 text instead (raw in top-level value position,
// JSON-quoted nested).
type Char rune

type variantShape uint8

const (
	shapeUnit variantShape = iota
	shapeNewtype
	shapeTuple
	shapeStruct
)

// Variant represents one case of a tagged union in the four standard
// shapes. Nested, a unit variant renders as the JSON string "Name" and the
// other shapes as a single-key object {"Name": payload} whose payload is a
// value, array, or object respectively. As a whole top-level value, a
// data-bearing variant renders as the single pair Name=payload; a unit
// variant has no value to carry and is a shape error there.
type Variant struct {
	name    string
	payload any
	elems   []any
	shape   variantShape
}

// UnitVariant returns the payload-less shape, rendering as "Name".
func UnitVariant(name string) Variant {
	return Variant{name: name, shape: shapeUnit}
}

// NewtypeVariant returns the single-payload shape, rendering as
// {"Name": payload}.
func NewtypeVariant(name string, payload any) Variant {
	return Variant{name: name, payload: payload, shape: shapeNewtype}
}

// TupleVariant returns the positional-payload shape, rendering as
// {"Name": [elems...]}.
func TupleVariant(name string, elems ...any) Variant {
	return Variant{name: name, elems: elems, shape: shapeTuple}
}

// StructVariant returns the named-field shape, rendering as
// {"Name": {fields...}}. The payload must be a struct or map (possibly
// behind pointers); anything else fails at encode time.
func StructVariant(name string, fields any) Variant {
	return Variant{name: name, payload: fields, shape: shapeStruct}
}

// Name returns the variant's case name.
func (v Variant) Name() string {
	return v.name
}
