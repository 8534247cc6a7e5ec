// Package registry loads the static dimension-type, biome, and
// damage-type tables the Configuration-phase RegistryData packet (§4.7,
// §8 scenario 3) serializes from, and builds their NBT encoding. Tables
// are authored as YAML so operators can edit them without a rebuild,
// mirroring the teacher's data-driven block/biome table conventions.
package registry

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/graphite-mc/graphite/server/nbt"
)

// DimensionType is one entry of the minecraft:dimension_type registry.
type DimensionType struct {
	Name               string  `yaml:"name"`
	Ultrawarm          bool    `yaml:"ultrawarm"`
	Natural            bool    `yaml:"natural"`
	Shrunk             bool    `yaml:"shrunk"`
	AmbientLight       float32 `yaml:"ambient_light"`
	MinY               int32   `yaml:"min_y"`
	Height             int32   `yaml:"height"`
	LogicalHeight      int32   `yaml:"logical_height"`
	HasSkylight        bool    `yaml:"has_skylight"`
	HasCeiling         bool    `yaml:"has_ceiling"`
	HasRaids           bool    `yaml:"has_raids"`
	PiglinSafe         bool    `yaml:"piglin_safe"`
	RespawnAnchorWorks bool    `yaml:"respawn_anchor_works"`
	BedWorks           bool    `yaml:"bed_works"`
}

// Biome is one entry of the minecraft:worldgen/biome registry.
type Biome struct {
	Name          string  `yaml:"name"`
	Temperature   float32 `yaml:"temperature"`
	Downfall      float32 `yaml:"downfall"`
	Precipitation string  `yaml:"precipitation"`
	SkyColor      int32   `yaml:"sky_color"`
	FogColor      int32   `yaml:"fog_color"`
	WaterColor    int32   `yaml:"water_color"`
	WaterFogColor int32   `yaml:"water_fog_color"`
}

// DamageType is one entry of the minecraft:damage_type registry.
type DamageType struct {
	Name       string  `yaml:"name"`
	MessageID  string  `yaml:"message_id"`
	Scaling    string  `yaml:"scaling"`
	Exhaustion float32 `yaml:"exhaustion"`
}

// Tables is the full set of static registries RegistryData needs.
type Tables struct {
	Dimensions  []DimensionType `yaml:"dimensions"`
	Biomes      []Biome         `yaml:"biomes"`
	DamageTypes []DamageType    `yaml:"damage_types"`
}

// Parse decodes a YAML document into Tables.
func Parse(raw []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tables{}, fmt.Errorf("registry: parse tables: %w", err)
	}
	return t, nil
}

// EncodeNBT builds the combined registry-codec NBT compound the
// Configuration-phase RegistryData packet sends: one root compound whose
// keys are registry ids, each mapped directly to a list of {name, id,
// element} compounds.
func (t Tables) EncodeNBT() []byte {
	tree := nbt.New()
	root := tree.Root()

	dims := root.PutList("minecraft:dimension_type", nbt.TagCompound)
	for i, d := range t.Dimensions {
		entry := dims.AppendCompound()
		entry.PutString("name", d.Name)
		entry.PutInt("id", int32(i))
		elem := entry.PutCompound("element")
		elem.PutByte("ultrawarm", boolByte(d.Ultrawarm))
		elem.PutByte("natural", boolByte(d.Natural))
		elem.PutByte("shrunk", boolByte(d.Shrunk))
		elem.PutFloat("ambient_light", d.AmbientLight)
		elem.PutInt("min_y", d.MinY)
		elem.PutInt("height", d.Height)
		elem.PutInt("logical_height", d.LogicalHeight)
		elem.PutByte("has_skylight", boolByte(d.HasSkylight))
		elem.PutByte("has_ceiling", boolByte(d.HasCeiling))
		elem.PutByte("has_raids", boolByte(d.HasRaids))
		elem.PutByte("piglin_safe", boolByte(d.PiglinSafe))
		elem.PutByte("respawn_anchor_works", boolByte(d.RespawnAnchorWorks))
		elem.PutByte("bed_works", boolByte(d.BedWorks))
	}

	biomes := root.PutList("minecraft:worldgen/biome", nbt.TagCompound)
	for i, b := range t.Biomes {
		entry := biomes.AppendCompound()
		entry.PutString("name", b.Name)
		entry.PutInt("id", int32(i))
		elem := entry.PutCompound("element")
		elem.PutFloat("temperature", b.Temperature)
		elem.PutFloat("downfall", b.Downfall)
		elem.PutString("precipitation", b.Precipitation)
		effects := elem.PutCompound("effects")
		effects.PutInt("sky_color", b.SkyColor)
		effects.PutInt("fog_color", b.FogColor)
		effects.PutInt("water_color", b.WaterColor)
		effects.PutInt("water_fog_color", b.WaterFogColor)
	}

	damage := root.PutList("minecraft:damage_type", nbt.TagCompound)
	for i, dt := range t.DamageTypes {
		entry := damage.AppendCompound()
		entry.PutString("name", dt.Name)
		entry.PutInt("id", int32(i))
		elem := entry.PutCompound("element")
		elem.PutString("message_id", dt.MessageID)
		elem.PutString("scaling", dt.Scaling)
		elem.PutFloat("exhaustion", dt.Exhaustion)
	}

	return nbt.Write(tree)
}

func boolByte(v bool) int8 {
	if v {
		return 1
	}
	return 0
}
