// Package render turns a decoded value.Value tree into JSON for display,
// the way the original command-line tool's decode-to-json helper does: a
// struct or message becomes a JSON object, an array a JSON array, an enum
// its variant name (or the bare discriminant number if the schema didn't
// recognize it), and everything else its natural JSON scalar.
package render

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/zfedoran/brine-kiwi/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ToJSON renders v as indented JSON.
func ToJSON(v value.Value) ([]byte, error) {
	return json.MarshalIndent(toInterface(v), "", "  ")
}

// ToJSONCompact renders v as single-line JSON.
func ToJSONCompact(v value.Value) ([]byte, error) {
	return json.Marshal(toInterface(v))
}

func toInterface(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindBool:
		return v.AsBool()
	case value.KindByte:
		return v.AsByte()
	case value.KindInt:
		return v.AsInt()
	case value.KindUint:
		return v.AsUint()
	case value.KindFloat:
		return v.AsFloat()
	case value.KindString:
		return v.AsString()
	case value.KindInt64:
		return v.AsInt64()
	case value.KindUint64:
		return v.AsUint64()
	case value.KindEnum:
		_, variant, raw, known := v.Enum()
		if known {
			return variant
		}
		return raw
	case value.KindArray:
		items := v.AsArray()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = toInterface(item)
		}
		return out
	case value.KindObject:
		fields := v.Fields()
		out := make(map[string]interface{}, len(fields))
		for name, fv := range fields {
			out[name] = toInterface(fv)
		}
		return out
	default:
		return nil
	}
}
