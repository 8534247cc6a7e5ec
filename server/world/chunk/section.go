package chunk

import "github.com/graphite-mc/graphite/server/binary/proto"

// Section is a single 16x16x16 block section plus its 4x4x4 biome section
// (§4.5). A Section created from a shared template (the "empty section"
// prototype every new chunk starts from) defers its deep copy until the
// first mutating call — the copy-on-write scheme the design notes (§9)
// describe as a requirement, grounded on the same "cheap prototype, copy on
// first write" shape the teacher's Chunk/SubChunk pairing implies for its
// own sub-chunk slice.
type Section struct {
	nonAir uint16
	blocks *PalettedContainer
	biomes *PalettedContainer
	shared bool
}

// NewEmptySection creates a freshly owned (non-shared) section filled with
// airState/airBiome.
func NewEmptySection(airState, airBiome int32) *Section {
	return &Section{
		blocks: NewBlockContainer(airState),
		biomes: NewBiomeContainer(airBiome),
	}
}

// NewTemplateSection wraps the given containers as a shared, read-only
// template. Each holder takes its own shallow copy of the returned Section
// (as NewFromTemplate does); the copies share container storage until one
// of them mutates, which clones the containers into that copy only. Holders
// that keep the same *Section pointer all see its mutations.
func NewTemplateSection(blocks, biomes *PalettedContainer) *Section {
	return &Section{blocks: blocks, biomes: biomes, shared: true, nonAir: uint16(blocks.NonZeroCount())}
}

// Clone returns an owned copy of the section, used when a chunk wants its
// own mutable section derived from a shared template without going through
// the lazy copy-on-write path (e.g. world generation duplicating a
// prototype into many chunks up front).
func (s *Section) Clone() *Section {
	return &Section{
		nonAir: s.nonAir,
		blocks: s.blocks.Clone(),
		biomes: s.biomes.Clone(),
	}
}

func (s *Section) ensureOwned() {
	if !s.shared {
		return
	}
	s.blocks = s.blocks.Clone()
	s.biomes = s.biomes.Clone()
	s.shared = false
}

// GetBlock returns the block state id at the section-local position.
func (s *Section) GetBlock(x, y, z int) int32 { return s.blocks.Get(x, y, z) }

// SetBlock writes a block state id, performing copy-on-write if this
// section is still a shared template, and keeping NonAirBlocks() in sync.
func (s *Section) SetBlock(x, y, z int, state int32) (changed bool) {
	s.ensureOwned()
	prev, changed := s.blocks.Set(x, y, z, state)
	if !changed {
		return false
	}
	wasAir, isAir := prev == 0, state == 0
	switch {
	case wasAir && !isAir:
		s.nonAir++
	case !wasAir && isAir:
		s.nonAir--
	}
	return true
}

// GetBiome returns the biome id at the section-local 4x4x4 biome position.
func (s *Section) GetBiome(x, y, z int) int32 { return s.biomes.Get(x, y, z) }

// SetBiome writes a biome id, triggering copy-on-write as needed.
func (s *Section) SetBiome(x, y, z int, biome int32) (changed bool) {
	s.ensureOwned()
	_, changed = s.biomes.Set(x, y, z, biome)
	return changed
}

// NonAirBlocks returns the maintained non-air block counter.
func (s *Section) NonAirBlocks() uint16 { return s.nonAir }

// Serialize appends the section's wire form: u16 non_air_blocks (BE) then
// the block palette then the biome palette (§4.5).
func (s *Section) Serialize(buf []byte) []byte {
	buf = proto.WriteU16(buf, s.nonAir)
	buf = s.blocks.Serialize(buf)
	buf = s.biomes.Serialize(buf)
	return buf
}
