package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// exampleSchema builds a small schema covering all three definition kinds:
//
//	enum Type { FLAT = 0; ROUND = 1; POINTED = 2; }
//	struct Color { byte red; byte green; byte blue; byte alpha; }
//	message Example { uint clientID = 1; Type type = 2; Color[] colors = 3; }
func exampleSchema() *Schema {
	return &Schema{Defs: []Definition{
		{
			Name: "Type",
			Kind: KindEnum,
			Fields: []Field{
				{Name: "FLAT", Value: 0},
				{Name: "ROUND", Value: 1},
				{Name: "POINTED", Value: 2},
			},
		},
		{
			Name: "Color",
			Kind: KindStruct,
			Fields: []Field{
				{Name: "red", Type: Type{Prim: TypeByte}},
				{Name: "green", Type: Type{Prim: TypeByte}},
				{Name: "blue", Type: Type{Prim: TypeByte}},
				{Name: "alpha", Type: Type{Prim: TypeByte}},
			},
		},
		{
			Name: "Example",
			Kind: KindMessage,
			Fields: []Field{
				{Name: "clientID", Type: Type{Prim: TypeUint}, Value: 1},
				{Name: "type", Type: Type{Prim: TypeUser, Ref: 0}, Value: 2},
				{Name: "colors", Type: Type{Prim: TypeUser, Ref: 1}, IsArray: true, Value: 3},
			},
		},
	}}
}

func TestValidateAcceptsExampleSchema(t *testing.T) {
	require.NoError(t, Validate(exampleSchema()))
}

func TestBinaryRoundTrip(t *testing.T) {
	s := exampleSchema()
	data := Encode(s)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, s, decoded)

	// The binary form round-trips bit for bit too.
	require.Equal(t, data, Encode(decoded))
}

func TestValidateRejectsDuplicateDefinitionName(t *testing.T) {
	s := &Schema{Defs: []Definition{
		{Name: "Foo", Kind: KindStruct},
		{Name: "Foo", Kind: KindMessage},
	}}
	err := Validate(s)
	require.Error(t, err)
}

func TestValidateRejectsReservedName(t *testing.T) {
	s := &Schema{Defs: []Definition{{Name: "package", Kind: KindStruct}}}
	require.Error(t, Validate(s))
}

func TestValidateRejectsStructFieldWithID(t *testing.T) {
	s := &Schema{Defs: []Definition{{
		Name: "Bad",
		Kind: KindStruct,
		Fields: []Field{
			{Name: "x", Type: Type{Prim: TypeInt}, Value: 1},
		},
	}}}
	err := Validate(s)
	require.Error(t, err)
}

func TestValidateRejectsMessageFieldMissingID(t *testing.T) {
	s := &Schema{Defs: []Definition{{
		Name: "Bad",
		Kind: KindMessage,
		Fields: []Field{
			{Name: "x", Type: Type{Prim: TypeInt}},
		},
	}}}
	err := Validate(s)
	require.Error(t, err)
}

func TestValidateRejectsDuplicateFieldID(t *testing.T) {
	s := &Schema{Defs: []Definition{{
		Name: "Bad",
		Kind: KindMessage,
		Fields: []Field{
			{Name: "x", Type: Type{Prim: TypeInt}, Value: 1},
			{Name: "y", Type: Type{Prim: TypeInt}, Value: 1},
		},
	}}}
	err := Validate(s)
	require.Error(t, err)
}

func TestValidateRejectsRecursiveStruct(t *testing.T) {
	s := &Schema{Defs: []Definition{{
		Name: "Node",
		Kind: KindStruct,
		Fields: []Field{
			{Name: "self", Type: Type{Prim: TypeUser, Ref: 0}},
		},
	}}}
	require.Error(t, Validate(s))
}

func TestValidateAllowsRecursiveMessage(t *testing.T) {
	s := &Schema{Defs: []Definition{{
		Name: "Node",
		Kind: KindMessage,
		Fields: []Field{
			{Name: "next", Type: Type{Prim: TypeUser, Ref: 0}, Value: 1},
		},
	}}}
	require.NoError(t, Validate(s))
}

func TestValidateAllowsRecursiveStructThroughArray(t *testing.T) {
	// An array-of-self is fine: arrays are length-prefixed, so there is no
	// positional desync risk the way a direct by-value embed would cause.
	s := &Schema{Defs: []Definition{{
		Name: "Node",
		Kind: KindStruct,
		Fields: []Field{
			{Name: "children", Type: Type{Prim: TypeUser, Ref: 0}, IsArray: true},
		},
	}}}
	require.NoError(t, Validate(s))
}
