package varint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphite-mc/graphite/server/binary/varint"
)

func TestEncodeI32Boundaries(t *testing.T) {
	cases := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xFF, 0x01}},
		{25565, []byte{0xDD, 0xC7, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2147483647, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}
	for _, c := range cases {
		buf, n := varint.EncodeI32(c.v)
		require.Equal(t, c.want, buf[:n], "encode %d", c.v)

		v, consumed, err := varint.DecodeI32(buf[:n])
		require.NoError(t, err)
		require.Equal(t, c.v, v)
		require.Equal(t, n, consumed)
		require.Equal(t, n, varint.SizeI32(c.v))
	}
}

func TestDecodeI32NotEnoughBytes(t *testing.T) {
	_, _, err := varint.DecodeI32([]byte{0x80})
	require.ErrorIs(t, err, varint.ErrNotEnoughBytes)
}

func TestDecodeI32TooManyContinuations(t *testing.T) {
	_, _, err := varint.DecodeI32([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	require.ErrorIs(t, err, varint.ErrTooManyContinuations)
}

func TestDecodeU21(t *testing.T) {
	v, n, err := varint.DecodeU21([]byte{0xFF, 0xFF, 0x7F})
	require.NoError(t, err)
	require.Equal(t, uint32(2097151), v)
	require.Equal(t, 3, n)

	_, _, err = varint.DecodeU21([]byte{0xFF, 0xFF, 0xFF, 0x7F})
	require.ErrorIs(t, err, varint.ErrTooManyContinuations)
}

func TestEncodeI64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808} {
		buf, n := varint.EncodeI64(v)
		got, consumed, err := varint.DecodeI64(buf[:n])
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, consumed)
		require.Equal(t, n, varint.SizeI64(v))
	}
}

func TestEncodePaddedRemainsValidVarint(t *testing.T) {
	buf := varint.EncodePadded(5, 3)
	require.Len(t, buf, 3)
	v, n, err := varint.DecodeU21(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(5), v)
	require.Equal(t, 3, n)
}

func TestTwoByteLookaheadNotRequired(t *testing.T) {
	// [1, x] must decode as a complete 1-byte packet payload [x] without
	// requiring a third byte of lookahead.
	length, n, err := varint.DecodeU21([]byte{1, 0x42})
	require.NoError(t, err)
	require.Equal(t, uint32(1), length)
	require.Equal(t, 1, n)
}
