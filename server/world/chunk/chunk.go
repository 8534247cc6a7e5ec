package chunk

import (
	"github.com/graphite-mc/graphite/server/binary/proto"
	"github.com/graphite-mc/graphite/server/block/cube"
	"github.com/graphite-mc/graphite/server/nbt"
)

// blockUpdatePacketID is the clientbound packet id used to notify viewers
// of a single block change. It is not among the packet ids spec.md
// enumerates explicitly (§6 lists only a representative subset); this value
// follows protocol 765's public documentation.
const blockUpdatePacketID = 0x09

// Chunk is a vertical stack of Sections plus the per-chunk viewer state
// described in §3/§4.5: block-entity NBT keyed by packed position, and two
// append-only per-tick buffers that accumulate packets for subscribed
// viewers.
type Chunk struct {
	X, Z int32
	r    cube.Range

	sections []*Section

	blockEntities map[int64]*nbt.CachedNBT

	entityViewable []byte
	chunkViewable  []byte

	cachedBlockData []byte // concatenation of section.Serialize(), invalidated on mutation
	cachedLightData []byte
}

// New creates an empty chunk spanning r, with every section a fresh
// NewEmptySection(airState, airBiome).
func New(x, z int32, r cube.Range, airState, airBiome int32) *Chunk {
	c := &Chunk{X: x, Z: z, r: r, blockEntities: make(map[int64]*nbt.CachedNBT)}
	c.sections = make([]*Section, r.Height())
	for i := range c.sections {
		c.sections[i] = NewEmptySection(airState, airBiome)
	}
	return c
}

// NewFromTemplate creates a chunk whose sections are each a shallow copy of
// the given shared template section, sharing its containers until the
// first mutation (copy-on-write, §4.5/§9); useful for cheaply initializing
// an entirely-air chunk before world-gen or the anvil loader populates it.
func NewFromTemplate(x, z int32, r cube.Range, template *Section) *Chunk {
	c := &Chunk{X: x, Z: z, r: r, blockEntities: make(map[int64]*nbt.CachedNBT)}
	c.sections = make([]*Section, r.Height())
	for i := range c.sections {
		s := *template
		c.sections[i] = &s
	}
	return c
}

func (c *Chunk) sectionIndex(y int) int { return (y - c.r.Min()) >> 4 }

// SectionAt returns the section containing world y.
func (c *Chunk) SectionAt(y int) *Section { return c.sections[c.sectionIndex(y)] }

// GetBlock returns the block state id at chunk-local (x,y,z), x/z in
// [0,16), y in the chunk's configured world range.
func (c *Chunk) GetBlock(x, y, z int) int32 {
	sec := c.SectionAt(y)
	return sec.GetBlock(x, (y-c.r.Min())&15, z)
}

// SetBlock writes a block state id, updates the owning section's
// non-air counter, invalidates the cached serialized chunk payload, and
// enqueues a BlockUpdate packet into the chunk's viewable buffer, per
// §4.5.
func (c *Chunk) SetBlock(x, y, z int, state int32) {
	sec := c.SectionAt(y)
	localY := (y - c.r.Min()) & 15
	if !sec.SetBlock(x, localY, z, state) {
		return
	}
	c.cachedBlockData = nil
	c.enqueueBlockUpdate(x, y, z, state)
}

func (c *Chunk) enqueueBlockUpdate(x, y, z int, state int32) {
	var buf []byte
	buf = proto.WriteVarInt(buf, blockUpdatePacketID)
	buf = proto.WriteI64(buf, PackBlockPos(x, y, z))
	buf = proto.WriteVarInt(buf, state)
	c.chunkViewable = append(c.chunkViewable, buf...)
}

// BlockEntity returns the non-volatile NBT for the block entity at
// (x,y,z), if any.
func (c *Chunk) BlockEntity(x, y, z int) (*nbt.CachedNBT, bool) {
	v, ok := c.blockEntities[PackBlockPos(x, y, z)]
	return v, ok
}

// SetBlockEntity stores (or replaces) the block entity NBT at (x,y,z).
func (c *Chunk) SetBlockEntity(x, y, z int, data *nbt.Tree) {
	c.blockEntities[PackBlockPos(x, y, z)] = nbt.NewCachedNBT(data)
}

// RemoveBlockEntity deletes any block entity stored at (x,y,z).
func (c *Chunk) RemoveBlockEntity(x, y, z int) {
	delete(c.blockEntities, PackBlockPos(x, y, z))
}

// AppendEntityViewable appends a pre-encoded packet to the chunk's
// entity-viewable buffer (entities spawning/moving/despawning inside it).
func (c *Chunk) AppendEntityViewable(packet []byte) {
	c.entityViewable = append(c.entityViewable, packet...)
}

// ViewerBuffers returns the two append-only per-tick buffers a subscribed
// player copies into its own outbound buffer at end of tick (§4.5/§4.8).
func (c *Chunk) ViewerBuffers() (entityViewable, chunkViewable []byte) {
	return c.entityViewable, c.chunkViewable
}

// ClearViewerBuffers resets both viewer buffers; called during Flush once
// every subscriber has copied them out.
func (c *Chunk) ClearViewerBuffers() {
	c.entityViewable = c.entityViewable[:0]
	c.chunkViewable = c.chunkViewable[:0]
}

// BlockData returns the concatenation of every section's Serialize() form,
// memoizing the result until the next mutating SetBlock invalidates it
// (§4.5's "the section concatenation ... are cached").
func (c *Chunk) BlockData() []byte {
	if c.cachedBlockData == nil {
		var buf []byte
		for _, sec := range c.sections {
			buf = sec.Serialize(buf)
		}
		c.cachedBlockData = buf
	}
	return c.cachedBlockData
}

// LightData returns the cached light payload. Light computation itself is
// outside this module's scope (no physics/lighting engine, §1); callers
// that do compute it store it here via SetLightData.
func (c *Chunk) LightData() []byte { return c.cachedLightData }

// SetLightData overwrites the cached light payload.
func (c *Chunk) SetLightData(b []byte) { c.cachedLightData = b }

// InvalidateCache forces BlockData to re-serialize on next access; exposed
// for callers that mutate a section directly (e.g. bulk world-gen writes)
// without going through Chunk.SetBlock.
func (c *Chunk) InvalidateCache() { c.cachedBlockData = nil }
