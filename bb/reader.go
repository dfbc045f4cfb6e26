package bb

import (
	"math"
	"unicode/utf8"

	"github.com/zfedoran/brine-kiwi/kiwierr"
)

// Reader walks a fixed byte slice with a read cursor. Unlike Writer it never
// grows; reads past the end of data fail with kiwierr.Truncated.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for reading. The returned Reader aliases data; callers
// must not mutate it while the Reader is in use.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read cursor, in bytes from the start of data.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Data returns the full underlying slice, including already-read bytes.
func (r *Reader) Data() []byte { return r.data }

func (r *Reader) truncated(format string, args ...interface{}) error {
	return kiwierr.AtOffset(kiwierr.Truncated, r.pos, format, args...)
}

// ReadBool reads a single byte and interprets 0/1 as false/true; any other
// byte value is malformed.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, kiwierr.AtOffset(kiwierr.Truncated, r.pos-1, "invalid bool byte %d", b)
	}
}

// ReadByte reads and returns the next raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.truncated("read past end of buffer")
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadBytes reads and returns the next n raw bytes. The returned slice
// aliases the Reader's underlying data.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, r.truncated("read of %d bytes past end of buffer", n)
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// ReadVarUint reads a base-128 little-endian varint, up to 5 bytes. A 5th
// byte whose continuation bit (0x80) is still set means the value would
// need a 6th byte, which no valid uint32 ever requires (the 5th byte of a
// maximal uint32 always fits in the low 4 bits); that is VarintOverflow, not
// more data to decode.
func (r *Reader) ReadVarUint() (uint32, error) {
	var shift uint
	var result uint32
	for i := 0; i < 5; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == 4 && b&128 != 0 {
			return 0, kiwierr.AtOffset(kiwierr.VarintOverflow, r.pos-1, "var_uint exceeds 5 bytes")
		}
		result |= uint32(b&127) << shift
		shift += 7
		if b&128 == 0 {
			break
		}
	}
	return result, nil
}

// ReadVarInt reads a zig-zag encoded varint.
func (r *Reader) ReadVarInt() (int32, error) {
	value, err := r.ReadVarUint()
	if err != nil {
		return 0, err
	}
	if value&1 != 0 {
		return int32(^(value >> 1)), nil
	}
	return int32(value >> 1), nil
}

// ReadVarUint64 is ReadVarUint's 64-bit counterpart, with one structural
// difference: 8 continuation-masked bytes only carry 56 bits, 8 short of a
// full uint64, so the 9th byte (if reached) is consumed whole rather than
// masked to 7 bits and is never itself subject to a continuation check —
// unlike the 32-bit case, a conformant encoder can and does set its high bit
// as genuine data (e.g. the all-0xFF encoding of math.MaxUint64), so that
// bit can't double as an overlong-varint signal the way it can for the 5th
// byte of a uint32.
func (r *Reader) ReadVarUint64() (uint64, error) {
	var shift uint
	var result uint64
	for i := 0; i < 9; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == 8 || b&128 == 0 {
			result |= uint64(b) << shift
			break
		}
		result |= uint64(b&127) << shift
		shift += 7
	}
	return result, nil
}

// ReadVarInt64 is ReadVarInt's 64-bit counterpart.
func (r *Reader) ReadVarInt64() (int64, error) {
	value, err := r.ReadVarUint64()
	if err != nil {
		return 0, err
	}
	if value&1 != 0 {
		return int64(^(value >> 1)), nil
	}
	return int64(value >> 1), nil
}

// ReadVarFloat reads Kiwi's rotated-float encoding: a lone 0x00 byte decodes
// to +0.0; otherwise 4 little-endian bytes are read and un-rotated back into
// IEEE-754 bit order.
func (r *Reader) ReadVarFloat() (float32, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if first == 0 {
		return 0, nil
	}
	rest, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	bits := uint32(first) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
	bits = (bits << 23) | (bits >> 9)
	return math.Float32frombits(bits), nil
}

// ReadString reads a NUL-terminated UTF-8 string. The terminator is consumed
// but not included in the result. Invalid UTF-8 in the span is rejected.
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	for r.pos < len(r.data) {
		if r.data[r.pos] == 0 {
			s := r.data[start:r.pos]
			r.pos++
			if !utf8.Valid(s) {
				return "", kiwierr.AtOffset(kiwierr.InvalidUTF8, start, "string contains invalid UTF-8")
			}
			return string(s), nil
		}
		r.pos++
	}
	return "", r.truncated("unterminated string starting at offset %d", start)
}
