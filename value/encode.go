package value

import (
	"github.com/zfedoran/brine-kiwi/bb"
	"github.com/zfedoran/brine-kiwi/kiwierr"
	"github.com/zfedoran/brine-kiwi/schema"
)

// Encode serializes v, which must be a struct or message instance of
// s.Defs[rootDef], into wire bytes.
func Encode(s *schema.Schema, rootDef int, v Value) ([]byte, error) {
	w := bb.NewWriter()
	typ := schema.Type{Prim: schema.TypeUser, Ref: rootDef}
	if err := encodeScalar(s, typ, v, w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func mismatch(want string, v Value) error {
	return kiwierr.New(kiwierr.TypeMismatch, "expected %s, got value kind %d", want, v.Kind())
}

// encodeField writes one field's value, handling the field's IsArray flag.
func encodeField(s *schema.Schema, f schema.Field, v Value, w *bb.Writer) error {
	if f.IsArray {
		if v.Kind() != KindArray {
			return mismatch("array", v)
		}
		items := v.AsArray()
		w.WriteVarUint(uint32(len(items)))
		for _, item := range items {
			if err := encodeScalar(s, f.Type, item, w); err != nil {
				return err
			}
		}
		return nil
	}
	return encodeScalar(s, f.Type, v, w)
}

// encodeScalar writes a single non-array value against typ. v's own tag must
// match typ, or the caller has built a Value tree that doesn't conform to
// the schema it's being encoded against, and that's a TypeMismatch.
func encodeScalar(s *schema.Schema, typ schema.Type, v Value, w *bb.Writer) error {
	if !typ.IsUser() {
		return encodePrimitive(typ.Prim, v, w)
	}

	def := &s.Defs[typ.Ref]
	switch def.Kind {
	case schema.KindEnum:
		if v.Kind() != KindEnum {
			return mismatch("enum "+def.Name, v)
		}
		_, variant, raw, known := v.Enum()
		if !known {
			w.WriteVarUint(raw)
			return nil
		}
		field, ok := def.FieldByName(variant)
		if !ok {
			return kiwierr.New(kiwierr.UnknownEnumVariant, "%q is not a variant of enum %q", variant, def.Name)
		}
		w.WriteVarUint(field.Value)
		return nil

	case schema.KindStruct:
		if v.Kind() != KindObject {
			return mismatch("struct "+def.Name, v)
		}
		for _, f := range def.Fields {
			fv, ok := v.Get(f.Name)
			if !ok {
				return kiwierr.New(kiwierr.MissingStructField, "struct %q is missing field %q", def.Name, f.Name)
			}
			if err := encodeField(s, f, fv, w); err != nil {
				return err
			}
		}
		return nil

	case schema.KindMessage:
		if v.Kind() != KindObject {
			return mismatch("message "+def.Name, v)
		}
		// Iterate fields in schema declaration order, not map order, so
		// the wire bytes are deterministic across runs.
		for _, f := range def.Fields {
			fv, ok := v.Get(f.Name)
			if !ok {
				continue
			}
			w.WriteVarUint(f.Value)
			if err := encodeField(s, f, fv, w); err != nil {
				return err
			}
		}
		w.WriteVarUint(0)
		return nil
	}
	return kiwierr.New(kiwierr.TypeMismatch, "definition %q has unhandled kind", def.Name)
}

func encodePrimitive(prim schema.Primitive, v Value, w *bb.Writer) error {
	switch prim {
	case schema.TypeBool:
		if v.Kind() != KindBool {
			return mismatch("bool", v)
		}
		w.WriteBool(v.AsBool())
	case schema.TypeByte:
		if v.Kind() != KindByte {
			return mismatch("byte", v)
		}
		w.WriteByte(v.AsByte())
	case schema.TypeInt:
		if v.Kind() != KindInt {
			return mismatch("int", v)
		}
		w.WriteVarInt(v.AsInt())
	case schema.TypeUint:
		if v.Kind() != KindUint {
			return mismatch("uint", v)
		}
		w.WriteVarUint(v.AsUint())
	case schema.TypeFloat:
		if v.Kind() != KindFloat {
			return mismatch("float", v)
		}
		w.WriteVarFloat(v.AsFloat())
	case schema.TypeString:
		if v.Kind() != KindString {
			return mismatch("string", v)
		}
		if containsNUL(v.AsString()) {
			return kiwierr.New(kiwierr.InvalidUTF8, "string contains an interior NUL byte")
		}
		w.WriteString(v.AsString())
	case schema.TypeInt64:
		if v.Kind() != KindInt64 {
			return mismatch("int64", v)
		}
		w.WriteVarInt64(v.AsInt64())
	case schema.TypeUint64:
		if v.Kind() != KindUint64 {
			return mismatch("uint64", v)
		}
		w.WriteVarUint64(v.AsUint64())
	default:
		return kiwierr.New(kiwierr.TypeMismatch, "unknown primitive type code %d", int(prim))
	}
	return nil
}

func containsNUL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return true
		}
	}
	return false
}
