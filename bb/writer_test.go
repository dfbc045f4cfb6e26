package bb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeOnce(cb func(w *Writer)) []byte {
	w := NewWriter()
	cb(w)
	return w.Bytes()
}

func TestWriteBool(t *testing.T) {
	require.Equal(t, []byte{0}, writeOnce(func(w *Writer) { w.WriteBool(false) }))
	require.Equal(t, []byte{1}, writeOnce(func(w *Writer) { w.WriteBool(true) }))
}

func TestWriteByte(t *testing.T) {
	require.Equal(t, []byte{0}, writeOnce(func(w *Writer) { w.WriteByte(0) }))
	require.Equal(t, []byte{254}, writeOnce(func(w *Writer) { w.WriteByte(254) }))
}

func TestWriteBytes(t *testing.T) {
	require.Equal(t, []byte{1, 2, 3}, writeOnce(func(w *Writer) { w.WriteBytes([]byte{1, 2, 3}) }))
}

func TestWriteVarInt(t *testing.T) {
	cases := []struct {
		value int32
		want  []byte
	}{
		{0, []byte{0}},
		{-1, []byte{1}},
		{1, []byte{2}},
		{-2, []byte{3}},
		{2, []byte{4}},
		{-64, []byte{127}},
		{64, []byte{128, 1}},
		{128, []byte{128, 2}},
		{-65, []byte{129, 1}},
		{-129, []byte{129, 2}},
		{-65535, []byte{253, 255, 7}},
		{65535, []byte{254, 255, 7}},
		{-2147483647, []byte{253, 255, 255, 255, 15}},
		{2147483647, []byte{254, 255, 255, 255, 15}},
		{-2147483648, []byte{255, 255, 255, 255, 15}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, writeOnce(func(w *Writer) { w.WriteVarInt(c.value) }), "value=%d", c.value)
	}
}

func TestWriteVarUint(t *testing.T) {
	cases := []struct {
		value uint32
		want  []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{127, []byte{127}},
		{128, []byte{128, 1}},
		{256, []byte{128, 2}},
		{4294967295, []byte{255, 255, 255, 255, 15}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, writeOnce(func(w *Writer) { w.WriteVarUint(c.value) }), "value=%d", c.value)
	}
}

func TestWriteVarFloat(t *testing.T) {
	require.Equal(t, []byte{0}, writeOnce(func(w *Writer) { w.WriteVarFloat(0.0) }))
	require.Equal(t, []byte{0}, writeOnce(func(w *Writer) { w.WriteVarFloat(float32(math.Copysign(0, -1))) }))
	require.Equal(t, []byte{133, 242, 210, 237}, writeOnce(func(w *Writer) { w.WriteVarFloat(123.456) }))
	require.Equal(t, []byte{133, 243, 210, 237}, writeOnce(func(w *Writer) { w.WriteVarFloat(-123.456) }))
	require.Equal(t, []byte{254, 255, 255, 255}, writeOnce(func(w *Writer) { w.WriteVarFloat(-math.MaxFloat32) }))
	require.Equal(t, []byte{254, 254, 255, 255}, writeOnce(func(w *Writer) { w.WriteVarFloat(math.MaxFloat32) }))
	require.Equal(t, []byte{255, 0, 0, 0}, writeOnce(func(w *Writer) { w.WriteVarFloat(float32(math.Inf(1))) }))
	require.Equal(t, []byte{255, 1, 0, 0}, writeOnce(func(w *Writer) { w.WriteVarFloat(float32(math.Inf(-1))) }))
}

func TestWriteString(t *testing.T) {
	require.Equal(t, []byte{0}, writeOnce(func(w *Writer) { w.WriteString("") }))
	require.Equal(t, []byte{97, 0}, writeOnce(func(w *Writer) { w.WriteString("a") }))
	require.Equal(t, []byte{97, 98, 99, 0}, writeOnce(func(w *Writer) { w.WriteString("abc") }))
	require.Equal(t, []byte{240, 159, 141, 149, 0}, writeOnce(func(w *Writer) { w.WriteString("\U0001F355") }))
}

func TestWriteVarInt64(t *testing.T) {
	cases := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0}},
		{-1, []byte{1}},
		{1, []byte{2}},
		{-65535, []byte{253, 255, 7}},
		{0x4407_0C14_2030_4040, []byte{0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, writeOnce(func(w *Writer) { w.WriteVarInt64(c.value) }), "value=%d", c.value)
	}
}

func TestWriteVarUint64(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{131069, []byte{253, 255, 7}},
		{0x880E_1828_4060_8080, []byte{0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88}},
		{0xFFFF_FFFF_FFFF_FFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, writeOnce(func(w *Writer) { w.WriteVarUint64(c.value) }), "value=%d", c.value)
	}
}

func TestWriteSequence(t *testing.T) {
	w := NewWriter()
	w.WriteVarFloat(0.0)
	w.WriteVarFloat(123.456)
	w.WriteString("\U0001F355")
	w.WriteVarUint(123456789)
	require.Equal(t, []byte{
		0, 133, 242, 210, 237, 240, 159, 141, 149, 0, 149, 154, 239, 58,
	}, w.Bytes())
}
