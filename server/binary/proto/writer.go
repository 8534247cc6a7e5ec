package proto

import "github.com/graphite-mc/graphite/server/binary/varint"

// Write* functions append the wire encoding of a value to buf and return the
// extended slice, mirroring the `write(buf, &T) -> remaining_buf` contract
// of §4.2 (here expressed as "the buffer grows" rather than "the remaining
// space shrinks", which is the natural Go shape for an append-based writer).

func WriteBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func WriteU8(buf []byte, v uint8) []byte { return append(buf, v) }
func WriteI8(buf []byte, v int8) []byte  { return append(buf, byte(v)) }

func WriteU16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}
func WriteI16(buf []byte, v int16) []byte { return WriteU16(buf, uint16(v)) }

func WriteU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func WriteI32BE(buf []byte, v int32) []byte { return WriteU32(buf, uint32(v)) }

func WriteU64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func WriteI64(buf []byte, v int64) []byte { return WriteU64(buf, uint64(v)) }

func WriteF32(buf []byte, v float32) []byte { return WriteU32(buf, math32bits(v)) }
func WriteF64(buf []byte, v float64) []byte { return WriteU64(buf, math64bits(v)) }

// WriteU128 writes a big-endian 128-bit value as two u64 halves, the shape
// used for player UUIDs on the wire.
func WriteU128(buf []byte, hi, lo uint64) []byte {
	buf = WriteU64(buf, hi)
	return WriteU64(buf, lo)
}

func WriteVarInt(buf []byte, v int32) []byte {
	b, n := varint.EncodeI32(v)
	return append(buf, b[:n]...)
}

func WriteVarLong(buf []byte, v int64) []byte {
	b, n := varint.EncodeI64(v)
	return append(buf, b[:n]...)
}

// SizeVarInt / SizeVarLong return the exact number of bytes WriteVarInt /
// WriteVarLong will append, used by GetWriteSize implementations.
func SizeVarInt(v int32) int  { return varint.SizeI32(v) }
func SizeVarLong(v int64) int { return varint.SizeI64(v) }

// WriteSizedString implements SizedString<MAX>'s write side.
func WriteSizedString(buf []byte, s string) []byte {
	buf = WriteVarInt(buf, int32(len(s)))
	return append(buf, s...)
}

// SizeSizedString returns the exact wire size of WriteSizedString(s).
func SizeSizedString(s string) int {
	return SizeVarInt(int32(len(s))) + len(s)
}

// WriteGreedyBlob implements GreedyBlob's write side: the raw bytes with no
// length prefix.
func WriteGreedyBlob(buf, blob []byte) []byte { return append(buf, blob...) }

// WriteSizedBlob implements SizedBlob<MAX,MULT>'s write side.
func WriteSizedBlob(buf, blob []byte) []byte {
	buf = WriteVarInt(buf, int32(len(blob)))
	return append(buf, blob...)
}

func SizeSizedBlob(blob []byte) int { return SizeVarInt(int32(len(blob))) + len(blob) }

// WriteSizedArray implements SizedArray<S>'s write side.
func WriteSizedArray[T any](buf []byte, items []T, write func([]byte, T) []byte) []byte {
	buf = WriteVarInt(buf, int32(len(items)))
	for _, v := range items {
		buf = write(buf, v)
	}
	return buf
}

func SizeSizedArray[T any](items []T, size func(T) int) int {
	n := SizeVarInt(int32(len(items)))
	for _, v := range items {
		n += size(v)
	}
	return n
}

// WriteOption implements Option<S>'s write side.
func WriteOption[T any](buf []byte, v *T, write func([]byte, T) []byte) []byte {
	if v == nil {
		return WriteBool(buf, false)
	}
	buf = WriteBool(buf, true)
	return write(buf, *v)
}

func SizeOption[T any](v *T, size func(T) int) int {
	if v == nil {
		return 1
	}
	return 1 + size(*v)
}
