// Package wire implements the small subset of the protobuf binary wire
// format this module needs: varints, zig-zag signed integers, tagged
// scalar fields, and length-delimited (packed or embedded-message)
// fields. It exists in place of a generated google.golang.org/protobuf
// binding because no .proto-derived Go package for the OSMPBF schema
// was available to regenerate without running the toolchain; see
// DESIGN.md. The method set mirrors protozero's pbf_builder, the C++
// equivalent used by the system this module's behavior is grounded on.
package wire

// AppendVarint appends v to b using the protobuf base-128 varint
// encoding and returns the extended slice.
func AppendVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// EncodeZigZag32 maps a signed 32-bit integer onto the unsigned range
// using protobuf's zig-zag scheme, folding the sign into the low bit.
func EncodeZigZag32(v int32) uint32 {
	return (uint32(v) << 1) ^ uint32(v>>31)
}

// EncodeZigZag64 is the 64-bit counterpart of EncodeZigZag32.
func EncodeZigZag64(v int64) uint64 {
	return (uint64(v) << 1) ^ uint64(v>>63)
}

const (
	wireVarint  = 0
	wireBytes   = 2
	wireFixed32 = 5
)

// Encoder accumulates the serialized bytes of one protobuf message.
// It is not safe for concurrent use; callers build one message per
// Encoder and hand the finished bytes to a parent message or the
// blob framer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty message builder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the serialized message so far. The returned slice
// aliases the encoder's internal buffer.
func (e *Encoder) Bytes() []byte {
	if e.buf == nil {
		return []byte{}
	}
	return e.buf
}

// Len reports the number of bytes serialized so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) tag(field int, wireType int) {
	e.buf = AppendVarint(e.buf, uint64(field)<<3|uint64(wireType))
}

// Int32 writes a plain (non-zig-zag) varint field; negative values
// are sign-extended to 64 bits before encoding, matching protobuf's
// int32 wire type.
func (e *Encoder) Int32(field int, v int32) {
	e.tag(field, wireVarint)
	e.buf = AppendVarint(e.buf, uint64(int64(v)))
}

// Int64 writes a plain varint field.
func (e *Encoder) Int64(field int, v int64) {
	e.tag(field, wireVarint)
	e.buf = AppendVarint(e.buf, uint64(v))
}

// Uint32 writes an unsigned varint field.
func (e *Encoder) Uint32(field int, v uint32) {
	e.tag(field, wireVarint)
	e.buf = AppendVarint(e.buf, uint64(v))
}

// Sint32 writes a zig-zag encoded varint field.
func (e *Encoder) Sint32(field int, v int32) {
	e.tag(field, wireVarint)
	e.buf = AppendVarint(e.buf, uint64(EncodeZigZag32(v)))
}

// Sint64 writes a zig-zag encoded varint field.
func (e *Encoder) Sint64(field int, v int64) {
	e.tag(field, wireVarint)
	e.buf = AppendVarint(e.buf, EncodeZigZag64(v))
}

// Bool writes a boolean field as a single-byte varint.
func (e *Encoder) Bool(field int, v bool) {
	e.tag(field, wireVarint)
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

// String writes a length-delimited UTF-8 string field.
func (e *Encoder) String(field int, s string) {
	e.tag(field, wireBytes)
	e.buf = AppendVarint(e.buf, uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// Message writes an already-serialized sub-message as an embedded
// field. Packed repeated scalar fields use the same wire shape, so
// the packed helpers below build their payload and call this too.
func (e *Encoder) Message(field int, msg []byte) {
	e.tag(field, wireBytes)
	e.buf = AppendVarint(e.buf, uint64(len(msg)))
	e.buf = append(e.buf, msg...)
}

// PackedInt32 writes a packed repeated int32 field. The field is
// always emitted, even for an empty slice, matching protozero's
// packed_field, whose destructor commits the field regardless of
// whether any element was added.
func (e *Encoder) PackedInt32(field int, vs []int32) {
	p := make([]byte, 0, len(vs)*2)
	for _, v := range vs {
		p = AppendVarint(p, uint64(int64(v)))
	}
	e.Message(field, p)
}

// PackedInt64 writes a packed repeated int64 field.
func (e *Encoder) PackedInt64(field int, vs []int64) {
	p := make([]byte, 0, len(vs)*3)
	for _, v := range vs {
		p = AppendVarint(p, uint64(v))
	}
	e.Message(field, p)
}

// PackedUint32 writes a packed repeated uint32 field.
func (e *Encoder) PackedUint32(field int, vs []uint32) {
	p := make([]byte, 0, len(vs)*2)
	for _, v := range vs {
		p = AppendVarint(p, uint64(v))
	}
	e.Message(field, p)
}

// PackedSint32 writes a packed repeated zig-zag sint32 field.
func (e *Encoder) PackedSint32(field int, vs []int32) {
	p := make([]byte, 0, len(vs)*2)
	for _, v := range vs {
		p = AppendVarint(p, uint64(EncodeZigZag32(v)))
	}
	e.Message(field, p)
}

// PackedSint64 writes a packed repeated zig-zag sint64 field.
func (e *Encoder) PackedSint64(field int, vs []int64) {
	p := make([]byte, 0, len(vs)*3)
	for _, v := range vs {
		p = AppendVarint(p, EncodeZigZag64(v))
	}
	e.Message(field, p)
}

// PackedBool writes a packed repeated bool field.
func (e *Encoder) PackedBool(field int, vs []bool) {
	p := make([]byte, 0, len(vs))
	for _, v := range vs {
		if v {
			p = append(p, 1)
		} else {
			p = append(p, 0)
		}
	}
	e.Message(field, p)
}
