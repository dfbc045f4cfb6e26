// Package schema holds the in-memory representation of a parsed Kiwi
// schema: its Definitions and Fields, the Primitive type codes, structural
// validation (Validate), and the self-describing binary form used
// to ship a schema alongside (or instead of) generated code.
package schema

import "fmt"

// DefKind is the kind of a top-level schema Definition.
type DefKind byte

const (
	KindEnum DefKind = iota
	KindStruct
	KindMessage
)

func (k DefKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("defkind(%d)", int(k))
	}
}

// Primitive is one of the eight builtin scalar type codes (-1 through -8),
// or TypeUser (0) for a field referencing a user type, whose Definition
// index is stored in Type.Ref.
type Primitive int

const (
	// TypeUser marks a Field whose Type is a reference to another
	// Definition rather than a builtin; Type.Ref holds the def index.
	TypeUser Primitive = 0

	TypeBool   Primitive = -1
	TypeByte   Primitive = -2
	TypeInt    Primitive = -3
	TypeUint   Primitive = -4
	TypeFloat  Primitive = -5
	TypeString Primitive = -6
	TypeInt64  Primitive = -7
	TypeUint64 Primitive = -8
)

// builtinByName maps schema-text type keywords to their Primitive code.
var builtinByName = map[string]Primitive{
	"bool":   TypeBool,
	"byte":   TypeByte,
	"int":    TypeInt,
	"uint":   TypeUint,
	"float":  TypeFloat,
	"string": TypeString,
	"int64":  TypeInt64,
	"uint64": TypeUint64,
}

// BuiltinByName resolves a builtin type keyword, returning ok=false for user
// type names (which the caller resolves against the Schema's Definitions).
func BuiltinByName(name string) (Primitive, bool) {
	p, ok := builtinByName[name]
	return p, ok
}

var builtinNames = map[Primitive]string{
	TypeBool:   "bool",
	TypeByte:   "byte",
	TypeInt:    "int",
	TypeUint:   "uint",
	TypeFloat:  "float",
	TypeString: "string",
	TypeInt64:  "int64",
	TypeUint64: "uint64",
}

func (p Primitive) String() string {
	if s, ok := builtinNames[p]; ok {
		return s
	}
	return fmt.Sprintf("user(%d)", int(p))
}

// Type is a field's type descriptor: either a builtin Primitive, or a
// reference to a user-defined Definition (Prim == TypeUser, Ref is the
// def_index of the referenced Definition).
type Type struct {
	Prim Primitive
	Ref  int
}

// IsUser reports whether t references a Definition rather than a builtin.
func (t Type) IsUser() bool { return t.Prim == TypeUser }

// Field is one member of a Definition.
type Field struct {
	Name string
	Type Type
	// IsArray marks the field as "Type[]" rather than a bare Type.
	IsArray bool
	// Deprecated marks a field carrying the supplemental "[deprecated]"
	// tag; it changes nothing about encoding, only generated doc comments.
	Deprecated bool
	// Value is the enum discriminant, the message field ID, or 0 for a
	// struct field (struct fields are matched positionally).
	Value uint32
}

// Definition is one enum/struct/message declaration.
type Definition struct {
	Name string
	Kind DefKind
	// Package is the optional "package NAME;" declaration that applied to
	// the schema this Definition was parsed from. It has no effect on the
	// wire format; it only seeds the generated Go package name.
	Package string
	Fields  []Field
}

// FieldByName returns the field named name and true, or the zero Field and
// false if this definition has no such field.
func (d *Definition) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByID returns the field whose Value equals id and true, or the zero
// Field and false: for a message, the field with that wire ID; for an enum,
// the member with that discriminant.
func (d *Definition) FieldByID(id uint32) (Field, bool) {
	for _, f := range d.Fields {
		if f.Value == id {
			return f, true
		}
	}
	return Field{}, false
}

// Schema is an ordered, validated list of Definitions. A Definition's
// position in Defs is its stable def_index, referenced by Type.Ref and by
// the binary schema format.
type Schema struct {
	Defs []Definition
}

// DefByName returns the Definition named name and its index, or ok=false.
func (s *Schema) DefByName(name string) (*Definition, int, bool) {
	for i := range s.Defs {
		if s.Defs[i].Name == name {
			return &s.Defs[i], i, true
		}
	}
	return nil, 0, false
}

// TypeName renders a field type descriptor back to schema-text form.
func (s *Schema) TypeName(t Type) string {
	if !t.IsUser() {
		return t.Prim.String()
	}
	if t.Ref < 0 || t.Ref >= len(s.Defs) {
		return fmt.Sprintf("<invalid def %d>", t.Ref)
	}
	return s.Defs[t.Ref].Name
}
