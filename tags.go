package metaform

import (
	"reflect"
	"strings"
	"sync"
)

// field describes one encodable struct field after tag resolution.
type field struct {
	name      string
	index     int
	omitEmpty bool
}

// fieldCache maps a struct reflect.Type to its resolved field list so tag
// parsing runs once per type. Safe for concurrent use.
var fieldCache sync.Map

// cachedFields returns the encodable fields of a struct type in declaration
// order. Unexported fields and fields tagged `form:"-"` are excluded; a
// `form` tag renames the field and may flag it omitempty.
func cachedFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			// unexported
			continue
		}
		name, omitEmpty, ignore := parseTag(sf.Tag.Get("form"))
		if ignore {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{name: name, index: i, omitEmpty: omitEmpty})
	}

	fieldCache.Store(t, fields)
	return fields
}

// parseTag splits a `form` struct tag into its name and option flags.
// The tag "-" drops the field entirely.
func parseTag(tag string) (name string, omitEmpty, ignore bool) {
	tag = strings.TrimSpace(tag)
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "omitempty":
			omitEmpty = true
		case "ignore":
			ignore = true
		}
	}
	return name, omitEmpty, ignore
}
