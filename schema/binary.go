package schema

import (
	"github.com/zfedoran/brine-kiwi/bb"
	"github.com/zfedoran/brine-kiwi/kiwierr"
)

// Encode serializes s using the same primitives the schema describes,
// giving Kiwi's binary schema format its "self-describing" property: the
// schema's own shape is not special-cased, it reuses write_string/
// write_byte/write_var_uint/write_var_int/write_bool exactly as any other
// encode would.
func Encode(s *Schema) []byte {
	w := bb.NewWriter()
	w.WriteVarUint(uint32(len(s.Defs)))
	for _, def := range s.Defs {
		w.WriteString(def.Name)
		w.WriteByte(byte(def.Kind))
		w.WriteVarUint(uint32(len(def.Fields)))
		for _, f := range def.Fields {
			w.WriteString(f.Name)
			w.WriteVarInt(int32(typeCode(f.Type)))
			w.WriteBool(f.IsArray)
			w.WriteVarUint(f.Value)
		}
	}
	return w.Bytes()
}

func typeCode(t Type) int {
	if t.IsUser() {
		return t.Ref
	}
	return int(t.Prim)
}

// Decode parses a binary schema produced by Encode. It performs only the
// structural checks necessary to build a well-formed Schema value (known
// def kind, in-range user-type references); full validation (name
// uniqueness, field ID rules, recursive structs) is Validate's job and
// should be run on the result before trusting it.
func Decode(data []byte) (*Schema, error) {
	r := bb.NewReader(data)
	count, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	s := &Schema{Defs: make([]Definition, count)}
	for i := range s.Defs {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		kindByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if kindByte > byte(KindMessage) {
			return nil, kiwierr.AtOffset(kiwierr.MalformedSchema, r.Pos(), "definition %q has unknown kind %d", name, kindByte)
		}
		fieldCount, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		fields := make([]Field, fieldCount)
		for j := range fields {
			fname, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			code, err := r.ReadVarInt()
			if err != nil {
				return nil, err
			}
			isArray, err := r.ReadBool()
			if err != nil {
				return nil, err
			}
			value, err := r.ReadVarUint()
			if err != nil {
				return nil, err
			}
			typ, err := decodeType(code, int(count))
			if err != nil {
				return nil, kiwierr.AtOffset(kiwierr.MalformedSchema, r.Pos(), "field %q of %q: %v", fname, name, err)
			}
			fields[j] = Field{Name: fname, Type: typ, IsArray: isArray, Value: value}
		}
		s.Defs[i] = Definition{Name: name, Kind: DefKind(kindByte), Fields: fields}
	}
	return s, nil
}

func decodeType(code int32, defCount int) (Type, error) {
	if code >= 0 {
		if int(code) >= defCount {
			return Type{}, kiwierr.New(kiwierr.MalformedSchema, "user type index %d out of range (%d definitions)", code, defCount)
		}
		return Type{Prim: TypeUser, Ref: int(code)}, nil
	}
	switch Primitive(code) {
	case TypeBool, TypeByte, TypeInt, TypeUint, TypeFloat, TypeString, TypeInt64, TypeUint64:
		return Type{Prim: Primitive(code)}, nil
	default:
		return Type{}, kiwierr.New(kiwierr.MalformedSchema, "unknown primitive type code %d", code)
	}
}
