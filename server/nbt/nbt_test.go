package nbt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphite-mc/graphite/server/nbt"
)

func buildSample() *nbt.Tree {
	t := nbt.New()
	root := t.Root()
	root.PutByte("Byte", 1)
	root.PutShort("Short", 2)
	root.PutInt("Int", 3)
	root.PutLong("Long", 4)
	root.PutFloat("Float", 5.5)
	root.PutDouble("Double", 6.25)
	root.PutString("Name", "héllo world\U0001F600")
	root.PutByteArray("Bytes", []int8{1, 2, 3})
	root.PutIntArray("Ints", []int32{1, 2, 3})
	root.PutLongArray("Longs", []int64{1, 2, 3})

	list := root.PutList("List", nbt.TagInt)
	list.AppendInt(1)
	list.AppendInt(2)

	child := root.PutCompound("Child")
	child.PutString("Inner", "value")
	return t
}

func TestBinaryRoundTrip(t *testing.T) {
	tree := buildSample()
	encoded := nbt.Write(tree)

	decoded, err := nbt.Read(encoded)
	require.NoError(t, err)

	reEncoded := nbt.Write(decoded)
	require.True(t, bytes.Equal(encoded, reEncoded))
}

func TestCompoundOrderingIsSortedNotInsertion(t *testing.T) {
	tree := nbt.New()
	root := tree.Root()
	root.PutInt("zebra", 1)
	root.PutInt("apple", 2)
	root.PutInt("mango", 3)
	require.Equal(t, []string{"apple", "mango", "zebra"}, root.Names())
}

func TestSNBTRoundTrip(t *testing.T) {
	tree := buildSample()
	text := nbt.ToSNBT(tree)

	parsed, err := nbt.FromSNBT(text)
	require.NoError(t, err)

	require.Equal(t, text, nbt.ToSNBT(parsed))
	require.True(t, bytes.Equal(nbt.Write(tree), nbt.Write(parsed)))
}

func TestSNBTRejectsMixedTypeList(t *testing.T) {
	_, err := nbt.FromSNBT(`{list: [1, "two"]}`)
	require.Error(t, err)
}

func TestSNBTRejectsDuplicateKey(t *testing.T) {
	_, err := nbt.FromSNBT(`{a: 1, a: 2}`)
	require.Error(t, err)
}

func TestSNBTRejectsUnterminatedString(t *testing.T) {
	_, err := nbt.FromSNBT(`{a: "unterminated}`)
	require.Error(t, err)
}

func TestReadRejectsDepthOverflow(t *testing.T) {
	// Build a binary blob nesting compounds 513 deep.
	var buf bytes.Buffer
	buf.WriteByte(byte(nbt.TagCompound))
	buf.Write([]byte{0, 0}) // empty root name

	for i := 0; i < 513; i++ {
		buf.WriteByte(byte(nbt.TagCompound))
		buf.Write([]byte{0, 1, 'c'}) // name "c"
	}
	for i := 0; i < 513; i++ {
		buf.WriteByte(byte(nbt.TagEnd))
	}
	buf.WriteByte(byte(nbt.TagEnd))

	_, err := nbt.Read(buf.Bytes())
	require.Error(t, err)
}

func TestReadRejectsDuplicateKey(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(nbt.TagCompound))
	buf.Write([]byte{0, 0})
	for i := 0; i < 2; i++ {
		buf.WriteByte(byte(nbt.TagByte))
		buf.Write([]byte{0, 1, 'a'})
		buf.WriteByte(1)
	}
	buf.WriteByte(byte(nbt.TagEnd))

	_, err := nbt.Read(buf.Bytes())
	require.Error(t, err)
}

func TestCachedNBTMemoizesAndInvalidates(t *testing.T) {
	tree := nbt.New()
	tree.Root().PutInt("a", 1)
	cached := nbt.NewCachedNBT(tree)

	first := cached.Bytes()
	second := cached.Bytes()
	require.Equal(t, first, second)

	cached.Mutate().PutInt("b", 2)
	third := cached.Bytes()
	require.NotEqual(t, first, third)
}
