package value

import (
	"github.com/zfedoran/brine-kiwi/bb"
	"github.com/zfedoran/brine-kiwi/kiwierr"
	"github.com/zfedoran/brine-kiwi/schema"
)

// Decode parses wire bytes produced for s.Defs[rootDef] back into a Value.
// aux, if non-nil, is a newer schema used only to resolve fields the reading
// schema s doesn't know about (see skipUnknownField for the forward-compatibility
// contract this implements). Pass a nil aux when no newer schema is
// available; an unknown message field then fails with kiwierr.UnknownField
// instead of being skipped.
func Decode(s *schema.Schema, rootDef int, data []byte, aux *schema.Schema) (Value, error) {
	r := bb.NewReader(data)
	typ := schema.Type{Prim: schema.TypeUser, Ref: rootDef}
	return decodeScalar(s, typ, r, aux)
}

func decodeField(s *schema.Schema, f schema.Field, r *bb.Reader, aux *schema.Schema) (Value, error) {
	if f.IsArray {
		n, err := r.ReadVarUint()
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, n)
		for i := range items {
			v, err := decodeScalar(s, f.Type, r, aux)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Array(items), nil
	}
	return decodeScalar(s, f.Type, r, aux)
}

func decodeScalar(s *schema.Schema, typ schema.Type, r *bb.Reader, aux *schema.Schema) (Value, error) {
	if !typ.IsUser() {
		return decodePrimitive(typ.Prim, r)
	}

	def := &s.Defs[typ.Ref]
	switch def.Kind {
	case schema.KindEnum:
		raw, err := r.ReadVarUint()
		if err != nil {
			return Value{}, err
		}
		if f, ok := def.FieldByID(raw); ok {
			return Enum(def.Name, f.Name), nil
		}
		return EnumRaw(def.Name, raw), nil

	case schema.KindStruct:
		fields := make(map[string]Value, len(def.Fields))
		for _, f := range def.Fields {
			v, err := decodeField(s, f, r, aux)
			if err != nil {
				return Value{}, err
			}
			fields[f.Name] = v
		}
		return Object(def.Name, fields), nil

	case schema.KindMessage:
		fields := make(map[string]Value)
		for {
			id, err := r.ReadVarUint()
			if err != nil {
				return Value{}, err
			}
			if id == 0 {
				return Object(def.Name, fields), nil
			}
			if f, ok := def.FieldByID(id); ok {
				v, err := decodeField(s, f, r, aux)
				if err != nil {
					return Value{}, err
				}
				fields[f.Name] = v
				continue
			}
			if err := skipUnknownField(def.Name, id, r, aux); err != nil {
				return Value{}, err
			}
		}
	}
	return Value{}, kiwierr.New(kiwierr.TypeMismatch, "definition %q has unhandled kind", def.Name)
}

// skipUnknownField consumes the bytes of a message field s's schema doesn't
// know about. It is only possible when aux (a newer schema, by convention
// a superset of s for the same definitions) names the field's type; absent
// that, the field is unrecoverable and decode fails per the documented
// forward-compatibility contract.
func skipUnknownField(defName string, id uint32, r *bb.Reader, aux *schema.Schema) error {
	if aux == nil {
		return kiwierr.New(kiwierr.UnknownField, "unknown field id %d in message %q (no newer schema supplied)", id, defName)
	}
	auxDef, _, ok := aux.DefByName(defName)
	if !ok {
		return kiwierr.New(kiwierr.UnknownField, "unknown field id %d in message %q (not present in newer schema either)", id, defName)
	}
	auxField, ok := auxDef.FieldByID(id)
	if !ok {
		return kiwierr.New(kiwierr.UnknownField, "unknown field id %d in message %q (not present in newer schema either)", id, defName)
	}
	// Switch into aux as the active schema for the skipped sub-decode: the
	// field's type, and any types it in turn references, are only defined
	// there.
	_, err := decodeField(aux, auxField, r, aux)
	return err
}

func decodePrimitive(prim schema.Primitive, r *bb.Reader) (Value, error) {
	switch prim {
	case schema.TypeBool:
		v, err := r.ReadBool()
		return Bool(v), err
	case schema.TypeByte:
		v, err := r.ReadByte()
		return Byte(v), err
	case schema.TypeInt:
		v, err := r.ReadVarInt()
		return Int(v), err
	case schema.TypeUint:
		v, err := r.ReadVarUint()
		return Uint(v), err
	case schema.TypeFloat:
		v, err := r.ReadVarFloat()
		return Float(v), err
	case schema.TypeString:
		v, err := r.ReadString()
		return String(v), err
	case schema.TypeInt64:
		v, err := r.ReadVarInt64()
		return Int64(v), err
	case schema.TypeUint64:
		v, err := r.ReadVarUint64()
		return Uint64(v), err
	default:
		return Value{}, kiwierr.New(kiwierr.TypeMismatch, "unknown primitive type code %d", int(prim))
	}
}
