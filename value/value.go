// Package value implements Kiwi's dynamic, schema-directed runtime codec:
// a tagged Value tree that can represent any instance of any definition in
// a schema.Schema, plus Encode/Decode functions that walk a Value against
// that schema to produce or consume wire bytes. This is the "C. Runtime
// Codec" component; the code generator in codegen/golang produces static
// bindings that are encoding-compatible with this package without
// depending on it at runtime.
package value

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindBool Kind = iota
	KindByte
	KindInt
	KindUint
	KindFloat
	KindString
	KindInt64
	KindUint64
	KindEnum
	KindArray
	KindObject
)

// Value is Kiwi's dynamic tagged union. Only the fields relevant to Kind are
// meaningful; the zero Value is KindBool(false).
type Value struct {
	kind Kind

	b   bool
	u8  byte
	i32 int32
	u32 uint32
	f32 float32
	str string
	i64 int64
	u64 uint64

	// Enum fields.
	enumDef     string
	enumVariant string
	enumRaw     uint32
	enumKnown   bool

	arr []Value

	objDef    string
	objFields map[string]Value
}

func Bool(v bool) Value       { return Value{kind: KindBool, b: v} }
func Byte(v byte) Value       { return Value{kind: KindByte, u8: v} }
func Int(v int32) Value       { return Value{kind: KindInt, i32: v} }
func Uint(v uint32) Value     { return Value{kind: KindUint, u32: v} }
func Float(v float32) Value   { return Value{kind: KindFloat, f32: v} }
func String(v string) Value   { return Value{kind: KindString, str: v} }
func Int64(v int64) Value     { return Value{kind: KindInt64, i64: v} }
func Uint64(v uint64) Value   { return Value{kind: KindUint64, u64: v} }
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// Enum builds a Value naming a known enum variant.
func Enum(def, variant string) Value {
	return Value{kind: KindEnum, enumDef: def, enumVariant: variant, enumKnown: true}
}

// EnumRaw builds a Value for an enum discriminant the schema doesn't
// recognize. Decode produces these instead of failing, per the
// unknown-enum-variant policy this module adopts (preserve, don't reject).
func EnumRaw(def string, raw uint32) Value {
	return Value{kind: KindEnum, enumDef: def, enumRaw: raw, enumKnown: false}
}

// Object builds a struct or message instance. fields is taken by reference.
func Object(def string, fields map[string]Value) Value {
	return Value{kind: KindObject, objDef: def, objFields: fields}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool     { return v.b }
func (v Value) AsByte() byte     { return v.u8 }
func (v Value) AsInt() int32     { return v.i32 }
func (v Value) AsUint() uint32   { return v.u32 }
func (v Value) AsFloat() float32 { return v.f32 }
func (v Value) AsInt64() int64   { return v.i64 }
func (v Value) AsUint64() uint64 { return v.u64 }

// AsString returns the String payload, or an Enum's variant name.
func (v Value) AsString() string {
	if v.kind == KindEnum {
		return v.enumVariant
	}
	return v.str
}

// AsArray returns the Array payload, or nil for other kinds.
func (v Value) AsArray() []Value {
	if v.kind == KindArray {
		return v.arr
	}
	return nil
}

// Enum returns the enum's definition name, variant name (empty if unknown),
// the raw discriminant, and whether the variant was recognized.
func (v Value) Enum() (def, variant string, raw uint32, known bool) {
	return v.enumDef, v.enumVariant, v.enumRaw, v.enumKnown
}

// ObjectName returns the definition name of a struct/message Value.
func (v Value) ObjectName() string { return v.objDef }

// Get returns a field of an Object Value, or ok=false if absent or if v
// isn't an Object.
func (v Value) Get(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.objFields[name]
	return f, ok
}

// Fields returns the field map of an Object Value. The caller must not
// mutate the result for a Value obtained from Decode.
func (v Value) Fields() map[string]Value { return v.objFields }
