// Package proto implements the typed serializer schemas (§4.2): primitive
// wire types plus the composite combinators (sized strings/blobs, sized
// arrays, options) that packet definitions are built from. Rather than the
// trait-based schema objects of the original, each combinator is an ordinary
// function over a Reader/Writer pair, following the design note that the
// schema-composition machinery collapses to higher-order functions in Go.
package proto

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/graphite-mc/graphite/server/binary/varint"
)

// ErrDecode is wrapped by every decode failure raised by this package so
// callers can test with errors.Is(err, proto.ErrDecode) regardless of the
// specific cause.
var ErrDecode = errors.New("proto: decode error")

// Reader is a cursor over an immutable byte slice. It never allocates and
// never copies; Remaining() exposes the unread tail directly.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader positioned at the start of b.
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Remaining returns the slice of bytes not yet consumed.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Pos returns the current cursor offset into the original slice.
func (r *Reader) Pos() int { return r.pos }

func decodeErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// take advances the cursor by n bytes and returns them, or fails if fewer
// than n bytes remain.
func (r *Reader) take(n int) ([]byte, error) {
	if r.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrDecode, n, r.Len())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBool reads the Single schema interpreted as a boolean (non-zero byte).
func ReadBool(r *Reader) (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadU8 / ReadI8 implement the one-byte Single schema.
func ReadU8(r *Reader) (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadI8(r *Reader) (int8, error) {
	v, err := ReadU8(r)
	return int8(v), err
}

// ReadU16 / ReadI16 / ReadU32 / ReadI32BE / ReadU64 / ReadI64 / ReadF32 /
// ReadF64 implement the BigEndian fixed-width primitive schemas.
func ReadU16(r *Reader) (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func ReadI16(r *Reader) (int16, error) {
	v, err := ReadU16(r)
	return int16(v), err
}

func ReadU32(r *Reader) (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func ReadI32BE(r *Reader) (int32, error) {
	v, err := ReadU32(r)
	return int32(v), err
}

func ReadU64(r *Reader) (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

func ReadI64(r *Reader) (int64, error) {
	v, err := ReadU64(r)
	return int64(v), err
}

func ReadF32(r *Reader) (float32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math32frombits(v), nil
}

func ReadF64(r *Reader) (float64, error) {
	v, err := ReadU64(r)
	if err != nil {
		return 0, err
	}
	return math64frombits(v), nil
}

// ReadU128 reads a big-endian 128-bit unsigned integer, the wire shape of a
// player UUID (two back-to-back u64 halves).
func ReadU128(r *Reader) (hi, lo uint64, err error) {
	hi, err = ReadU64(r)
	if err != nil {
		return 0, 0, err
	}
	lo, err = ReadU64(r)
	return hi, lo, err
}

// ReadVarInt implements the VarInt i32 primitive schema.
func ReadVarInt(r *Reader) (int32, error) {
	v, n, err := varint.DecodeI32(r.Remaining())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	r.pos += n
	return v, nil
}

// ReadVarLong implements the VarInt i64 primitive schema.
func ReadVarLong(r *Reader) (int64, error) {
	v, n, err := varint.DecodeI64(r.Remaining())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	r.pos += n
	return v, nil
}

// ReadVarU21 implements the unsigned 21-bit VarInt primitive used by length
// headers.
func ReadVarU21(r *Reader) (uint32, error) {
	v, n, err := varint.DecodeU21(r.Remaining())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	r.pos += n
	return v, nil
}

// ReadSizedString implements SizedString<MAX>: a varint byte length followed
// by that many UTF-8 bytes. The byte length is rejected if it exceeds
// max*4; character count is checked only once the byte length exceeds max,
// matching §4.2's "checked only when byte length exceeds MAX" rule.
func ReadSizedString(r *Reader, max int) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", decodeErrf("sized string: negative length %d", n)
	}
	if int(n) > max*4 {
		return "", decodeErrf("sized string: length %d exceeds max*4 %d", n, max*4)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", decodeErrf("sized string: invalid utf-8")
	}
	s := string(b)
	if len(b) > max {
		if utf8.RuneCountInString(s) > max {
			return "", decodeErrf("sized string: rune count exceeds max %d", max)
		}
	}
	return s, nil
}

// ReadGreedyBlob implements GreedyBlob: consumes all remaining bytes.
func ReadGreedyBlob(r *Reader) []byte {
	b := r.Remaining()
	r.pos = len(r.buf)
	return b
}

// ReadSizedBlob implements SizedBlob<MAX, MULT>.
func ReadSizedBlob(r *Reader, max, mult int) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, decodeErrf("sized blob: negative length %d", n)
	}
	if int(n) > max*mult {
		return nil, decodeErrf("sized blob: length %d exceeds max*mult %d", n, max*mult)
	}
	if int(n) > r.Len() {
		return nil, decodeErrf("sized blob: length %d exceeds remaining %d", n, r.Len())
	}
	return r.take(int(n))
}

// ReadSizedArray implements SizedArray<S>: a varint element count followed
// by that many elements decoded with elem.
func ReadSizedArray[T any](r *Reader, elem func(*Reader) (T, error)) ([]T, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, decodeErrf("sized array: negative count %d", n)
	}
	out := make([]T, 0, min(int(n), 4096))
	for i := int32(0); i < n; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadOption implements Option<S>: a one-byte presence flag followed by S
// when present.
func ReadOption[T any](r *Reader, elem func(*Reader) (T, error)) (*T, error) {
	present, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := elem(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReadAttemptFrom implements AttemptFrom<S, F>: read S, then fallibly
// convert it to the target type with convert.
func ReadAttemptFrom[S, T any](r *Reader, read func(*Reader) (S, error), convert func(S) (T, bool)) (T, error) {
	var zero T
	s, err := read(r)
	if err != nil {
		return zero, err
	}
	t, ok := convert(s)
	if !ok {
		return zero, decodeErrf("attempt_from: conversion failed for %v", s)
	}
	return t, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
