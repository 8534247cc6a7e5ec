// Package varint implements the variable-length integer encodings used
// throughout the wire protocol: the signed 32-bit and 64-bit forms used for
// most fields, and the unsigned 21-bit form used for packet length headers.
package varint

import "errors"

// Possible errors returned while decoding a varint.
var (
	// ErrNotEnoughBytes is returned when fewer bytes are present than the
	// varint being decoded needs.
	ErrNotEnoughBytes = errors.New("varint: not enough bytes")
	// ErrTooManyContinuations is returned when a continuation bit remains
	// set past the maximum byte width for the type being decoded.
	ErrTooManyContinuations = errors.New("varint: too many continuation bytes")
)

const (
	segmentBits = 0x7f
	continueBit = 0x80
)

// DecodeI32 decodes a signed 32-bit varint from b, returning the decoded
// value and the number of bytes consumed. At most 5 bytes are ever read.
//
// Up to 8 bytes of b are first copied into a fixed scratch array; the value
// is then assembled one byte at a time, and the length is the position of
// the first byte whose continuation bit is clear.
func DecodeI32(b []byte) (int32, int, error) {
	var scratch [8]byte
	n := copy(scratch[:], b)

	var result int32
	for i := 0; i < 5; i++ {
		if i >= n {
			return 0, 0, ErrNotEnoughBytes
		}
		cur := scratch[i]
		result |= int32(cur&segmentBits) << (7 * i)
		if cur&continueBit == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, ErrTooManyContinuations
}

// DecodeU21 decodes an unsigned value stored in at most 3 varint bytes, the
// form used by packet length headers (§4.6). Values above the 3-byte range
// are rejected with ErrTooManyContinuations.
func DecodeU21(b []byte) (uint32, int, error) {
	var result uint32
	for i := 0; i < 3; i++ {
		if i >= len(b) {
			return 0, 0, ErrNotEnoughBytes
		}
		cur := b[i]
		result |= uint32(cur&segmentBits) << (7 * i)
		if cur&continueBit == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, ErrTooManyContinuations
}

// DecodeI64 decodes a signed 64-bit varint from b, reading at most 10 bytes.
func DecodeI64(b []byte) (int64, int, error) {
	var result int64
	for i := 0; i < 10; i++ {
		if i >= len(b) {
			return 0, 0, ErrNotEnoughBytes
		}
		cur := b[i]
		result |= int64(cur&segmentBits) << (7 * i)
		if cur&continueBit == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, ErrTooManyContinuations
}

// EncodeI32 encodes v into a 5-byte scratch buffer and returns the buffer
// along with the number of bytes actually used. The caller slices
// buf[:size]. The encoding is always the minimal-length one.
func EncodeI32(v int32) (buf [5]byte, size int) {
	u := uint32(v)
	for {
		if u&^segmentBits == 0 {
			buf[size] = byte(u)
			size++
			return buf, size
		}
		buf[size] = byte(u&segmentBits) | continueBit
		size++
		u >>= 7
	}
}

// EncodeI64 encodes v into a 10-byte scratch buffer, minimal length.
func EncodeI64(v int64) (buf [10]byte, size int) {
	u := uint64(v)
	for {
		if u&^uint64(segmentBits) == 0 {
			buf[size] = byte(u)
			size++
			return buf, size
		}
		buf[size] = byte(u&segmentBits) | continueBit
		size++
		u >>= 7
	}
}

// SizeI32 returns the number of bytes EncodeI32(v) would produce, without
// doing the encode. Used by schemas that need an exact write size up front.
func SizeI32(v int32) int {
	u := uint32(v)
	n := 1
	for u >= continueBit {
		u >>= 7
		n++
	}
	return n
}

// SizeI64 returns the number of bytes EncodeI64(v) would produce.
func SizeI64(v int64) int {
	u := uint64(v)
	n := 1
	for u >= continueBit {
		u >>= 7
		n++
	}
	return n
}

// EncodePadded writes v as a varint occupying exactly width bytes (width
// must be large enough to hold v), padding any unused high bytes with
// continuation-only sentinel bytes (0x80) and clearing the continuation bit
// of the final byte (0x00 when it is padding too), so the result remains a
// valid varint of that width. This lets packet framing reserve a fixed-width
// length header before the payload size is known and patch it in afterward
// without a second pass or a memmove (§4.6).
func EncodePadded(v uint32, width int) []byte {
	buf := make([]byte, width)
	for i := 0; i < width; i++ {
		b := byte(v & segmentBits)
		v >>= 7
		if i != width-1 {
			b |= continueBit
		}
		buf[i] = b
	}
	return buf
}

// NeededBytes returns the largest unsigned value a varint of width bytes can
// hold (2^(7*width) - 1); exported for callers validating "max
// representable" style bounds (§4.6: 2097151 for a 3-byte u21 header).
func NeededBytes(width int) uint32 {
	return 1<<(7*width) - 1
}
