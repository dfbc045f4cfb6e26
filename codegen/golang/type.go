// Package golang generates Go source for a schema.Schema: one aggregate
// type per definition plus an encode/decode function pair that depends only
// on the bb package, never on schema or value. Emitted source runs through
// go/format.Source before it reaches the caller.
package golang

import (
	"fmt"

	"github.com/zfedoran/brine-kiwi/schema"
)

var primitiveGo = map[schema.Primitive]string{
	schema.TypeBool:   "bool",
	schema.TypeByte:   "byte",
	schema.TypeInt:    "int32",
	schema.TypeUint:   "uint32",
	schema.TypeFloat:  "float32",
	schema.TypeString: "string",
	schema.TypeInt64:  "int64",
	schema.TypeUint64: "uint64",
}

// scalarGo translates a bare (non-array) type descriptor into its Go type,
// with no pointer wrapping.
func scalarGo(s *schema.Schema, t schema.Type) string {
	if !t.IsUser() {
		name, ok := primitiveGo[t.Prim]
		if !ok {
			panic(fmt.Errorf("kiwi: typeGo: unhandled primitive %v", t.Prim))
		}
		return name
	}
	return s.Defs[t.Ref].Name
}

// fieldGo translates a field, including its array-ness, into the Go type
// used for the corresponding generated struct field. Struct fields are
// always present, so optional is always false for them; message fields are
// optional, so a scalar message field is a pointer (its zero value, nil,
// unambiguously means "absent" for every kind including enums, where the
// zero discriminant is itself a valid known value). An array field's
// optionality is carried by the slice itself being nil; its element type is
// never a pointer.
func fieldGo(s *schema.Schema, f schema.Field, optional bool) string {
	elem := scalarGo(s, f.Type)
	if f.IsArray {
		return "[]" + elem
	}
	if optional {
		return "*" + elem
	}
	return elem
}

// exportGo capitalizes a schema identifier's first rune so the generated
// struct field is visible outside the package; schema names are otherwise
// used verbatim since the grammar already restricts them to Go-legal
// identifier characters.
func exportGo(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
