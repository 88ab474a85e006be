// Package wiretest decodes the subset of the protobuf wire format that
// internal/wire encodes. It exists only to let _test.go files assert
// the on-wire invariants from spec section 8 without a production PBF
// reader, which is explicitly out of scope for this module.
package wiretest

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated is returned when the buffer ends mid-field.
var ErrTruncated = errors.New("wiretest: truncated message")

// ConsumeVarint reads one varint from the front of b and returns its
// value together with the number of bytes consumed.
func ConsumeVarint(b []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0, fmt.Errorf("wiretest: varint too long")
		}
		if c < 0x80 {
			v |= uint64(c) << shift
			return v, i + 1, nil
		}
		v |= uint64(c&0x7f) << shift
		shift += 7
	}
	return 0, 0, ErrTruncated
}

// DecodeZigZag32 reverses wire.EncodeZigZag32.
func DecodeZigZag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// DecodeZigZag64 reverses wire.EncodeZigZag64.
func DecodeZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// Field is one decoded (tag, payload) pair from a message. Varint holds
// the value for varint and fixed-width fields; Bytes holds the inner
// bytes (length already stripped) for length-delimited fields.
type Field struct {
	Number   int
	WireType int
	Varint   uint64
	Bytes    []byte
}

// ParseMessage splits b into its top-level fields without interpreting
// their semantics, mirroring how a protobuf message is a flat sequence
// of (tag, value) pairs regardless of nesting.
func ParseMessage(b []byte) ([]Field, error) {
	var fields []Field
	for len(b) > 0 {
		tag, n, err := ConsumeVarint(b)
		if err != nil {
			return nil, err
		}
		b = b[n:]
		field := int(tag >> 3)
		wireType := int(tag & 0x7)

		switch wireType {
		case 0:
			v, n, err := ConsumeVarint(b)
			if err != nil {
				return nil, err
			}
			b = b[n:]
			fields = append(fields, Field{Number: field, WireType: wireType, Varint: v})
		case 2:
			length, n, err := ConsumeVarint(b)
			if err != nil {
				return nil, err
			}
			b = b[n:]
			if uint64(len(b)) < length {
				return nil, ErrTruncated
			}
			fields = append(fields, Field{Number: field, WireType: wireType, Bytes: b[:length]})
			b = b[length:]
		case 1:
			if len(b) < 8 {
				return nil, ErrTruncated
			}
			fields = append(fields, Field{Number: field, WireType: wireType, Varint: binary.LittleEndian.Uint64(b[:8])})
			b = b[8:]
		case 5:
			if len(b) < 4 {
				return nil, ErrTruncated
			}
			fields = append(fields, Field{Number: field, WireType: wireType, Varint: uint64(binary.LittleEndian.Uint32(b[:4]))})
			b = b[4:]
		default:
			return nil, fmt.Errorf("wiretest: unsupported wire type %d", wireType)
		}
	}
	return fields, nil
}

// Find returns the first field with the given field number, if any.
func Find(fields []Field, number int) (Field, bool) {
	for _, f := range fields {
		if f.Number == number {
			return f, true
		}
	}
	return Field{}, false
}

// FindAll returns every field with the given field number, in order.
func FindAll(fields []Field, number int) []Field {
	var out []Field
	for _, f := range fields {
		if f.Number == number {
			out = append(out, f)
		}
	}
	return out
}

// PackedVarints decodes a packed-varint field payload into its values.
func PackedVarints(b []byte) ([]uint64, error) {
	var out []uint64
	for len(b) > 0 {
		v, n, err := ConsumeVarint(b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		b = b[n:]
	}
	return out, nil
}

// PackedSint64 decodes a packed zig-zag sint64 field payload.
func PackedSint64(b []byte) ([]int64, error) {
	raw, err := PackedVarints(b)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(raw))
	for i, v := range raw {
		out[i] = DecodeZigZag64(v)
	}
	return out, nil
}

// PackedSint32 decodes a packed zig-zag sint32 field payload.
func PackedSint32(b []byte) ([]int32, error) {
	raw, err := PackedVarints(b)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(raw))
	for i, v := range raw {
		out[i] = DecodeZigZag32(uint32(v))
	}
	return out, nil
}

// PackedInt32 decodes a packed plain-varint int32 field payload.
func PackedInt32(b []byte) ([]int32, error) {
	raw, err := PackedVarints(b)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(raw))
	for i, v := range raw {
		out[i] = int32(v)
	}
	return out, nil
}

// PackedBool decodes a packed bool field payload.
func PackedBool(b []byte) ([]bool, error) {
	out := make([]bool, len(b))
	for i, v := range b {
		out[i] = v != 0
	}
	return out, nil
}

// CumulativeSum turns a delta-encoded column back into absolute values,
// used to verify invariant 3 (packed delta columns decode back to the
// input).
func CumulativeSum(deltas []int64) []int64 {
	out := make([]int64, len(deltas))
	var last int64
	for i, d := range deltas {
		last += d
		out[i] = last
	}
	return out
}
