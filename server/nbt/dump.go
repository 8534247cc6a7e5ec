package nbt

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable, indented rendering of t to w for debug
// logging. Unlike ToSNBT this form is not meant to be parsed back; it names
// each tag explicitly and is supplemented from the original's
// binary/src/nbt/pretty.rs, which served the same debug-dump role alongside
// the canonical SNBT writer.
func Dump(w io.Writer, t *Tree) {
	dumpCompound(w, t, t.root, 0)
}

func indent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat("  ", depth))
}

func dumpCompound(w io.Writer, t *Tree, idx int32, depth int) {
	n := &t.nodes[idx]
	fmt.Fprintln(w, "Compound {")
	for _, e := range n.entries {
		indent(w, depth+1)
		fmt.Fprintf(w, "%q: ", e.name)
		dumpValue(w, t, e.index, depth+1)
	}
	indent(w, depth)
	fmt.Fprintln(w, "}")
}

func dumpValue(w io.Writer, t *Tree, idx int32, depth int) {
	n := &t.nodes[idx]
	switch n.tag {
	case TagCompound:
		dumpCompound(w, t, idx, depth)
	case TagList:
		fmt.Fprintf(w, "List<%v>[%d] {\n", n.listElem, len(n.items))
		for _, item := range n.items {
			indent(w, depth+1)
			dumpValue(w, t, item, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, "}")
	case TagByte:
		fmt.Fprintf(w, "Byte(%d)\n", n.i64)
	case TagShort:
		fmt.Fprintf(w, "Short(%d)\n", n.i64)
	case TagInt:
		fmt.Fprintf(w, "Int(%d)\n", n.i64)
	case TagLong:
		fmt.Fprintf(w, "Long(%d)\n", n.i64)
	case TagFloat:
		fmt.Fprintf(w, "Float(%g)\n", n.f64)
	case TagDouble:
		fmt.Fprintf(w, "Double(%g)\n", n.f64)
	case TagString:
		fmt.Fprintf(w, "String(%q)\n", n.str)
	case TagByteArray:
		fmt.Fprintf(w, "ByteArray[%d]\n", len(n.i8s))
	case TagIntArray:
		fmt.Fprintf(w, "IntArray[%d]\n", len(n.i32s))
	case TagLongArray:
		fmt.Fprintf(w, "LongArray[%d]\n", len(n.i64s))
	}
}
