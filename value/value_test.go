package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zfedoran/brine-kiwi/kiwierr"
	"github.com/zfedoran/brine-kiwi/schema"
)

// exampleSchema is a small schema covering all three definition kinds:
//
//	enum Type { FLAT = 0; ROUND = 1; POINTED = 2; }
//	struct Color { byte red; byte green; byte blue; byte alpha; }
//	message Example { uint clientID = 1; Type type = 2; Color[] colors = 3; }
func exampleSchema() *schema.Schema {
	return &schema.Schema{Defs: []schema.Definition{
		{
			Name: "Type",
			Kind: schema.KindEnum,
			Fields: []schema.Field{
				{Name: "FLAT", Value: 0},
				{Name: "ROUND", Value: 1},
				{Name: "POINTED", Value: 2},
			},
		},
		{
			Name: "Color",
			Kind: schema.KindStruct,
			Fields: []schema.Field{
				{Name: "red", Type: schema.Type{Prim: schema.TypeByte}},
				{Name: "green", Type: schema.Type{Prim: schema.TypeByte}},
				{Name: "blue", Type: schema.Type{Prim: schema.TypeByte}},
				{Name: "alpha", Type: schema.Type{Prim: schema.TypeByte}},
			},
		},
		{
			Name: "Example",
			Kind: schema.KindMessage,
			Fields: []schema.Field{
				{Name: "clientID", Type: schema.Type{Prim: schema.TypeUint}, Value: 1},
				{Name: "type", Type: schema.Type{Prim: schema.TypeUser, Ref: 0}, Value: 2},
				{Name: "colors", Type: schema.Type{Prim: schema.TypeUser, Ref: 1}, IsArray: true, Value: 3},
			},
		},
	}}
}

const exampleIdx = 2

func TestEncodeEmptyMessage(t *testing.T) {
	s := exampleSchema()
	v := Object("Example", map[string]Value{})
	data, err := Encode(s, exampleIdx, v)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, data)
}

func TestEncodeScalarAndEnum(t *testing.T) {
	s := exampleSchema()
	v := Object("Example", map[string]Value{
		"clientID": Uint(1),
		"type":     Enum("Type", "ROUND"),
	})
	data, err := Encode(s, exampleIdx, v)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x01, 0x02, 0x01, 0x00}, data)
}

func TestEncodeArrayOfStruct(t *testing.T) {
	s := exampleSchema()
	color := Object("Color", map[string]Value{
		"red": Byte(1), "green": Byte(2), "blue": Byte(3), "alpha": Byte(4),
	})
	v := Object("Example", map[string]Value{
		"colors": Array([]Value{color}),
	})
	data, err := Encode(s, exampleIdx, v)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x01, 0x01, 0x02, 0x03, 0x04, 0x00}, data)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := exampleSchema()
	color := Object("Color", map[string]Value{
		"red": Byte(10), "green": Byte(20), "blue": Byte(30), "alpha": Byte(255),
	})
	original := Object("Example", map[string]Value{
		"clientID": Uint(42),
		"type":     Enum("Type", "POINTED"),
		"colors":   Array([]Value{color, color}),
	})

	data, err := Encode(s, exampleIdx, original)
	require.NoError(t, err)

	decoded, err := Decode(s, exampleIdx, data, nil)
	require.NoError(t, err)

	require.Equal(t, KindObject, decoded.Kind())
	clientID, ok := decoded.Get("clientID")
	require.True(t, ok)
	require.Equal(t, uint32(42), clientID.AsUint())

	typ, ok := decoded.Get("type")
	require.True(t, ok)
	_, variant, _, known := typ.Enum()
	require.True(t, known)
	require.Equal(t, "POINTED", variant)

	colors, ok := decoded.Get("colors")
	require.True(t, ok)
	require.Len(t, colors.AsArray(), 2)
}

func TestDecodeUnknownEnumVariantIsPreservedRaw(t *testing.T) {
	s := exampleSchema()
	// Field id 2 ("type"), followed by discriminant 99 (not in the enum),
	// then the message terminator.
	data := []byte{0x02, 99, 0x00}
	decoded, err := Decode(s, exampleIdx, data, nil)
	require.NoError(t, err)

	typ, ok := decoded.Get("type")
	require.True(t, ok)
	def, _, raw, known := typ.Enum()
	require.Equal(t, "Type", def)
	require.False(t, known)
	require.Equal(t, uint32(99), raw)
}

func TestEncodeRejectsMismatchedFieldType(t *testing.T) {
	s := exampleSchema()
	v := Object("Example", map[string]Value{
		"clientID": String("not a uint"),
	})
	_, err := Encode(s, exampleIdx, v)
	require.Error(t, err)
}

func TestEncodeRejectsMissingStructField(t *testing.T) {
	s := exampleSchema()
	incompleteColor := Object("Color", map[string]Value{
		"red": Byte(1),
	})
	v := Object("Example", map[string]Value{
		"colors": Array([]Value{incompleteColor}),
	})
	_, err := Encode(s, exampleIdx, v)
	require.Error(t, err)
}

func TestEncodeFloatZeroIsOneByte(t *testing.T) {
	s := &schema.Schema{Defs: []schema.Definition{{
		Name: "M",
		Kind: schema.KindMessage,
		Fields: []schema.Field{
			{Name: "x", Type: schema.Type{Prim: schema.TypeFloat}, Value: 1},
		},
	}}}
	v := Object("M", map[string]Value{"x": Float(0)})
	data, err := Encode(s, 0, v)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x00}, data)
}

// newerSchema ("S2") adds a "label" string field to Example that the reading
// schema ("S1", exampleSchema) doesn't know about.
func newerSchema() *schema.Schema {
	s := exampleSchema()
	example := &s.Defs[exampleIdx]
	example.Fields = append(example.Fields, schema.Field{
		Name: "label", Type: schema.Type{Prim: schema.TypeString}, Value: 4,
	})
	return s
}

func TestDecodeSkipsUnknownFieldGivenAuxSchema(t *testing.T) {
	s2 := newerSchema()
	v := Object("Example", map[string]Value{
		"clientID": Uint(7),
		"label":    String("hello"),
	})
	data, err := Encode(s2, exampleIdx, v)
	require.NoError(t, err)

	s1 := exampleSchema()
	decoded, err := Decode(s1, exampleIdx, data, s2)
	require.NoError(t, err)

	clientID, ok := decoded.Get("clientID")
	require.True(t, ok)
	require.Equal(t, uint32(7), clientID.AsUint())

	_, ok = decoded.Get("label")
	require.False(t, ok, "label is not part of s1 and must be dropped, not surfaced")
}

func TestDecodeUnknownFieldWithoutAuxFails(t *testing.T) {
	s2 := newerSchema()
	v := Object("Example", map[string]Value{
		"clientID": Uint(7),
		"label":    String("hello"),
	})
	data, err := Encode(s2, exampleIdx, v)
	require.NoError(t, err)

	s1 := exampleSchema()
	_, err = Decode(s1, exampleIdx, data, nil)
	require.Error(t, err)
}

func TestDecodeTruncatedDataFails(t *testing.T) {
	s := exampleSchema()
	_, err := Decode(s, exampleIdx, []byte{0x01}, nil)
	require.Error(t, err)
}

// colorSchema returns a schema with a single struct definition, Color, built
// with exactly the given field names (all bytes). Structs are positional
// and carry no framing, so data encoded against one field count desyncs
// when decoded against a different one. This is by design — structs are
// frozen once deployed, unlike messages.
func colorSchema(fieldNames ...string) *schema.Schema {
	fields := make([]schema.Field, len(fieldNames))
	for i, name := range fieldNames {
		fields[i] = schema.Field{Name: name, Type: schema.Type{Prim: schema.TypeByte}}
	}
	return &schema.Schema{Defs: []schema.Definition{{Name: "Color", Kind: schema.KindStruct, Fields: fields}}}
}

func TestDecodeStructGrowingAfterEncodeIsDetectedAsMalformed(t *testing.T) {
	encodeSchema := colorSchema("red", "green")
	v := Object("Color", map[string]Value{"red": Byte(1), "green": Byte(2)})
	data, err := Encode(encodeSchema, 0, v)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, data)

	// A field was added to Color after this data was produced: decoding
	// now tries to read two more bytes than exist.
	decodeSchema := colorSchema("red", "green", "blue", "alpha")
	_, err = Decode(decodeSchema, 0, data, nil)
	require.Error(t, err)
	require.Equal(t, kiwierr.Truncated, kiwierr.ErrorKind(err))
}

func TestDecodeStructShrinkingAfterEncodeIsDetectedAsMalformed(t *testing.T) {
	s := exampleSchema()
	color := Object("Color", map[string]Value{
		"red": Byte(10), "green": Byte(20), "blue": Byte(30), "alpha": Byte(40),
	})
	v := Object("Example", map[string]Value{"colors": Array([]Value{color})})
	data, err := Encode(s, exampleIdx, v)
	require.NoError(t, err)

	// A field was removed from Color after this data was produced: the
	// struct decode now stops two bytes early, so the message loop reads
	// Color's leftover "blue" byte as the next field tag instead of a
	// real one.
	shrunk := exampleSchema()
	shrunk.Defs[1].Fields = shrunk.Defs[1].Fields[:2] // red, green only
	_, err = Decode(shrunk, exampleIdx, data, nil)
	require.Error(t, err)
	require.Equal(t, kiwierr.UnknownField, kiwierr.ErrorKind(err))
}
