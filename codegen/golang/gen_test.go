package golang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zfedoran/brine-kiwi/schema"
)

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

func TestGenerateProducesValidGoSource(t *testing.T) {
	s := exampleSchema()
	src, err := Generate(s, "shapes", "github.com/zfedoran/brine-kiwi/bb")
	require.NoError(t, err)

	out := string(src)
	require.Contains(t, out, "package shapes")
	require.Contains(t, out, "type Type uint32")
	require.Contains(t, out, "type Color struct")
	require.Contains(t, out, "type Example struct")
	require.Contains(t, out, "func encodeExample(w *bb.Writer, v *Example) {")
	require.Contains(t, out, "func decodeExample(r *bb.Reader) (*Example, error) {")
	// Message fields are optional: pointer or slice storage.
	require.True(t, strings.Contains(out, "ClientID *uint32") || strings.Contains(out, "ClientID  *uint32"))
	// An unrecognized field id must fail the decode, not silently desync
	// the tag stream by skipping the switch with no bytes consumed.
	require.Contains(t, out, "default:")
	require.Contains(t, out, "unknown field id")
}

func TestGenerateEmptySchemaStillCompiles(t *testing.T) {
	s := &schema.Schema{}
	src, err := Generate(s, "empty", "github.com/zfedoran/brine-kiwi/bb")
	require.NoError(t, err)
	require.Contains(t, string(src), "package empty")
}
