// Package chunk implements the paletted container (C4) and the chunk
// section / chunk stack (C5) built on top of it, grounded on the teacher's
// server/world/chunk/decode.go — the three-state (Single/Array/Direct)
// palette and the block/biome split follow the same shape the teacher uses
// for its network/disk paletted storages, adapted from Bedrock's
// multi-layer, dual-encoding format to the single-layer Java Edition wire
// format described in §4.4-§4.5.
package chunk

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

// ErrPalette is wrapped by palette invariant violations. In debug builds
// these should be treated as programmer errors (panic); in release, logged
// and treated as a recoverable bug per §7.
var ErrPalette = errors.New("chunk: palette")

// containerState is the current representation of a PalettedContainer.
type containerState uint8

const (
	stateSingle containerState = iota
	stateArray
	stateDirect
)

// maxArrayPalette is the largest number of distinct values the Array state
// can hold before a Set forces a transition to Direct (§4.4).
const maxArrayPalette = 16

// arrayIndexBits is the fixed width of the in-memory Array index nibbles
// (2 per byte, §4.4); it is independent of how many bits the palette
// actually needs on the wire.
const arrayIndexBits = 4

type paletteEntry struct {
	value int32
	count uint16
}

// PalettedContainer stores one fixed-size volume of entries (4096 blocks or
// 64 biomes per section) using whichever of Single/Array/Direct currently
// minimizes memory, transitioning forward as distinct values are
// introduced and never downgrading automatically (§4.4).
type PalettedContainer struct {
	sideLen    int // 16 for blocks, 4 for biomes
	n          int // sideLen^3
	directBits int // fixed bits-per-entry once in Direct state

	state   containerState
	single  int32
	palette []paletteEntry
	nibbles []byte   // Array state: len(n)/2, two 4-bit indices per byte
	direct  []uint64 // Direct state: packed at directBits per entry, no cross-word splitting
}

// NewBlockContainer creates a 16x16x16 block container, initially Single.
func NewBlockContainer(single int32) *PalettedContainer {
	return newContainer(16, 15, single)
}

// NewBiomeContainer creates a 4x4x4 biome container, initially Single.
func NewBiomeContainer(single int32) *PalettedContainer {
	return newContainer(4, 6, single)
}

func newContainer(sideLen, directBits int, single int32) *PalettedContainer {
	return &PalettedContainer{
		sideLen:    sideLen,
		n:          sideLen * sideLen * sideLen,
		directBits: directBits,
		state:      stateSingle,
		single:     single,
	}
}

func (c *PalettedContainer) index(x, y, z int) int {
	return y*c.sideLen*c.sideLen + z*c.sideLen + x
}

// Get returns the value stored at (x, y, z).
func (c *PalettedContainer) Get(x, y, z int) int32 {
	idx := c.index(x, y, z)
	switch c.state {
	case stateSingle:
		return c.single
	case stateArray:
		return c.palette[c.nibbleAt(idx)].value
	default:
		return c.directGet(idx)
	}
}

// Set stores value at (x, y, z), returning the previous value and whether
// it changed, and performing any state transition the write requires.
func (c *PalettedContainer) Set(x, y, z int, value int32) (prev int32, changed bool) {
	idx := c.index(x, y, z)
	switch c.state {
	case stateSingle:
		if value == c.single {
			return c.single, false
		}
		prevVal := c.single
		c.toArrayFromSingle(idx, value)
		return prevVal, true
	case stateArray:
		return c.setArray(idx, value)
	default:
		return c.setDirect(idx, value)
	}
}

// Fill replaces the entire container with Single(value), reporting whether
// the representation or value actually changed.
func (c *PalettedContainer) Fill(value int32) bool {
	if c.state == stateSingle && c.single == value {
		return false
	}
	c.state = stateSingle
	c.single = value
	c.palette = nil
	c.nibbles = nil
	c.direct = nil
	return true
}

// toArrayFromSingle handles the Single->Array transition (§4.4): palette
// becomes [(old, n-1), (new, 1)] and the nibble buffer is all zero except
// the position being set, which becomes 1.
func (c *PalettedContainer) toArrayFromSingle(setIdx int, value int32) {
	c.palette = []paletteEntry{
		{value: c.single, count: uint16(c.n - 1)},
		{value: value, count: 1},
	}
	c.nibbles = make([]byte, c.n/2)
	c.setNibble(setIdx, 1)
	c.state = stateArray
}

func (c *PalettedContainer) nibbleAt(idx int) int {
	b := c.nibbles[idx/2]
	if idx%2 == 0 {
		return int(b & 0x0F)
	}
	return int(b >> 4)
}

func (c *PalettedContainer) setNibble(idx, v int) {
	b := &c.nibbles[idx/2]
	if idx%2 == 0 {
		*b = (*b &^ 0x0F) | byte(v&0x0F)
	} else {
		*b = (*b &^ 0xF0) | byte((v&0x0F)<<4)
	}
}

func (c *PalettedContainer) findOrAddPaletteIndex(value int32) (paletteIdx int, isNew bool) {
	if i := slices.IndexFunc(c.palette, func(e paletteEntry) bool { return e.value == value }); i >= 0 {
		return i, false
	}
	c.palette = append(c.palette, paletteEntry{value: value})
	return len(c.palette) - 1, true
}

func (c *PalettedContainer) setArray(idx int, value int32) (prev int32, changed bool) {
	oldPaletteIdx := c.nibbleAt(idx)
	oldValue := c.palette[oldPaletteIdx].value
	if oldValue == value {
		return oldValue, false
	}

	newPaletteIdx, isNew := c.findOrAddPaletteIndex(value)
	if isNew && len(c.palette) > maxArrayPalette {
		// The 17th distinct value: transition to Direct and retry there.
		c.toDirectFromArray()
		return c.setDirect(idx, value)
	}

	c.palette[oldPaletteIdx].count--
	c.palette[newPaletteIdx].count++
	c.setNibble(idx, newPaletteIdx)
	return oldValue, true
}

// toDirectFromArray allocates a Direct buffer and copies every entry
// through the old palette into it, then discards the Array state (§4.4).
func (c *PalettedContainer) toDirectFromArray() {
	values := make([]int32, c.n)
	for i := 0; i < c.n; i++ {
		values[i] = c.palette[c.nibbleAt(i)].value
	}
	c.direct = packBits(values, c.directBits)
	c.palette = nil
	c.nibbles = nil
	c.state = stateDirect
}

func (c *PalettedContainer) directGet(idx int) int32 {
	return unpackOne(c.direct, c.directBits, idx)
}

func (c *PalettedContainer) setDirect(idx int, value int32) (prev int32, changed bool) {
	old := c.directGet(idx)
	if old == value {
		return old, false
	}
	setPackedOne(c.direct, c.directBits, idx, value)
	return old, true
}

// NonZeroCount reports how many entries are non-zero, used by tests
// validating the non_air_blocks invariant (§8) and by NewTemplateSection to
// compute a template's counter from scratch.
func (c *PalettedContainer) NonZeroCount() int {
	count := 0
	for y := 0; y < c.sideLen; y++ {
		for z := 0; z < c.sideLen; z++ {
			for x := 0; x < c.sideLen; x++ {
				if c.Get(x, y, z) != 0 {
					count++
				}
			}
		}
	}
	return count
}

// Clone returns a deep copy, used to implement the chunk section's
// copy-on-write semantics for shared template sections (§4.5, §9).
func (c *PalettedContainer) Clone() *PalettedContainer {
	clone := *c
	clone.palette = append([]paletteEntry(nil), c.palette...)
	clone.nibbles = append([]byte(nil), c.nibbles...)
	clone.direct = append([]uint64(nil), c.direct...)
	return &clone
}

// bitsForPaletteSize returns the minimal number of bits needed to index a
// palette of the given length, with a floor of 1 (the wire Array encoding
// never uses 0 bits, even for a 1-entry list written on the wire as Array —
// in practice Single containers bypass this by writing 0 directly).
func bitsForPaletteSize(n int) int {
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

// Serialize writes the container's wire form (§4.4): one byte
// bits-per-entry, the palette (varint value list for Array, a bare varint
// for Single, nothing for Direct), then a SizedArray<u64> of packed words.
func (c *PalettedContainer) Serialize(buf []byte) []byte {
	switch c.state {
	case stateSingle:
		buf = proto.WriteU8(buf, 0)
		buf = proto.WriteVarInt(buf, c.single)
		return proto.WriteSizedArray(buf, []uint64{}, proto.WriteU64)
	case stateArray:
		bits := bitsForPaletteSize(len(c.palette))
		buf = proto.WriteU8(buf, uint8(bits))
		buf = proto.WriteVarInt(buf, int32(len(c.palette)))
		for _, e := range c.palette {
			buf = proto.WriteVarInt(buf, e.value)
		}
		values := make([]int32, c.n)
		for i := 0; i < c.n; i++ {
			values[i] = int32(c.nibbleAt(i))
		}
		words := packBits(values, bits)
		return proto.WriteSizedArray(buf, words, proto.WriteU64)
	default:
		buf = proto.WriteU8(buf, uint8(c.directBits))
		return proto.WriteSizedArray(buf, c.direct, proto.WriteU64)
	}
}

// DeserializePaletted parses the wire form produced by Serialize for a
// container shaped like the one described by sideLen/directBits.
func DeserializePaletted(r *proto.Reader, sideLen, directBits int) (*PalettedContainer, error) {
	bits, err := proto.ReadU8(r)
	if err != nil {
		return nil, err
	}
	n := sideLen * sideLen * sideLen
	switch {
	case bits == 0:
		value, err := proto.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		if _, err := proto.ReadSizedArray(r, proto.ReadU64); err != nil {
			return nil, err
		}
		return newContainer(sideLen, directBits, value), nil
	case int(bits) == directBits:
		words, err := proto.ReadSizedArray(r, proto.ReadU64)
		if err != nil {
			return nil, err
		}
		c := newContainer(sideLen, directBits, 0)
		c.state = stateDirect
		c.direct = words
		return c, nil
	default:
		paletteLen, err := proto.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		if paletteLen < 0 || paletteLen > maxArrayPalette {
			return nil, fmt.Errorf("%w: palette length %d out of range", ErrPalette, paletteLen)
		}
		palette := make([]paletteEntry, paletteLen)
		for i := range palette {
			v, err := proto.ReadVarInt(r)
			if err != nil {
				return nil, err
			}
			palette[i].value = v
		}
		words, err := proto.ReadSizedArray(r, proto.ReadU64)
		if err != nil {
			return nil, err
		}
		indices := unpackAll(words, int(bits), n)
		c := newContainer(sideLen, directBits, 0)
		c.state = stateArray
		c.palette = palette
		c.nibbles = make([]byte, n/2)
		for i, pi := range indices {
			c.setNibble(i, int(pi))
			palette[pi].count++
		}
		return c, nil
	}
}
