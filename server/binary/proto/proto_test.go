package proto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

func TestSizedStringRoundTrip(t *testing.T) {
	buf := proto.WriteSizedString(nil, "Alex")
	require.Equal(t, proto.SizeSizedString("Alex"), len(buf))

	r := proto.NewReader(buf)
	s, err := proto.ReadSizedString(r, 16)
	require.NoError(t, err)
	require.Equal(t, "Alex", s)
	require.Equal(t, 0, r.Len())
}

func TestSizedStringRejectsOverMax(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	buf := proto.WriteSizedString(nil, string(long))
	_, err := proto.ReadSizedString(proto.NewReader(buf), 16)
	require.Error(t, err)
}

func TestSizedArrayRoundTrip(t *testing.T) {
	items := []int32{1, 2, 3, -1}
	buf := proto.WriteSizedArray(nil, items, proto.WriteVarInt)
	require.Equal(t, proto.SizeSizedArray(items, proto.SizeVarInt), len(buf))

	r := proto.NewReader(buf)
	got, err := proto.ReadSizedArray(r, proto.ReadVarInt)
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestOptionRoundTrip(t *testing.T) {
	var none *int32
	buf := proto.WriteOption(nil, none, proto.WriteVarInt)
	r := proto.NewReader(buf)
	got, err := proto.ReadOption(r, proto.ReadVarInt)
	require.NoError(t, err)
	require.Nil(t, got)

	v := int32(42)
	buf = proto.WriteOption(nil, &v, proto.WriteVarInt)
	got, err = proto.ReadOption(proto.NewReader(buf), proto.ReadVarInt)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int32(42), *got)
}

func TestPrimitivesRoundTrip(t *testing.T) {
	buf := []byte{}
	buf = proto.WriteBool(buf, true)
	buf = proto.WriteU8(buf, 200)
	buf = proto.WriteI16(buf, -100)
	buf = proto.WriteU32(buf, 0xdeadbeef)
	buf = proto.WriteI64(buf, -123456789)
	buf = proto.WriteF64(buf, 3.5)

	r := proto.NewReader(buf)
	b, _ := proto.ReadBool(r)
	require.True(t, b)
	u8, _ := proto.ReadU8(r)
	require.Equal(t, uint8(200), u8)
	i16, _ := proto.ReadI16(r)
	require.Equal(t, int16(-100), i16)
	u32, _ := proto.ReadU32(r)
	require.Equal(t, uint32(0xdeadbeef), u32)
	i64, _ := proto.ReadI64(r)
	require.Equal(t, int64(-123456789), i64)
	f64, _ := proto.ReadF64(r)
	require.Equal(t, 3.5, f64)
	require.Equal(t, 0, r.Len())
}
