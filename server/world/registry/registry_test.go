package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/graphite-mc/graphite/server/nbt"
)

const sampleYAML = `
dimensions:
  - name: minecraft:overworld
    natural: true
    ambient_light: 0
    min_y: -64
    height: 384
    logical_height: 384
    has_skylight: true
    bed_works: true
biomes:
  - name: minecraft:plains
    temperature: 0.8
    downfall: 0.4
    precipitation: rain
    sky_color: 7907327
damage_types:
  - name: minecraft:generic
    message_id: generic
    scaling: when_caused_by_living_non_player
    exhaustion: 0.1
`

func TestParseDecodesAllThreeTables(t *testing.T) {
	tables, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := Tables{
		Dimensions: []DimensionType{{
			Name:          "minecraft:overworld",
			Natural:       true,
			MinY:          -64,
			Height:        384,
			LogicalHeight: 384,
			HasSkylight:   true,
			BedWorks:      true,
		}},
		Biomes: []Biome{{
			Name:          "minecraft:plains",
			Temperature:   0.8,
			Downfall:      0.4,
			Precipitation: "rain",
			SkyColor:      7907327,
		}},
		DamageTypes: []DamageType{{
			Name:       "minecraft:generic",
			MessageID:  "generic",
			Scaling:    "when_caused_by_living_non_player",
			Exhaustion: 0.1,
		}},
	}
	if diff := cmp.Diff(want, tables); diff != "" {
		t.Fatalf("parsed tables mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeNBTRoundTrips(t *testing.T) {
	tables, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	encoded := tables.EncodeNBT()
	if len(encoded) == 0 {
		t.Fatalf("expected non-empty NBT output")
	}

	tree, err := nbt.Read(encoded)
	if err != nil {
		t.Fatalf("nbt.Read: %v", err)
	}
	root := tree.Root()
	if !root.Has("minecraft:dimension_type") {
		t.Fatalf("missing minecraft:dimension_type in encoded registry")
	}
	dims, ok := root.Get("minecraft:dimension_type")
	if !ok || dims.Tag() != nbt.TagList {
		t.Fatalf("minecraft:dimension_type should be a list, got %+v", dims)
	}
	if dims.List().Len() != 1 {
		t.Fatalf("expected 1 dimension entry, got %d", dims.List().Len())
	}
	entry := dims.List().Get(0).Compound()
	nameVal, ok := entry.Get("name")
	if !ok || nameVal.String() != "minecraft:overworld" {
		t.Fatalf("unexpected dimension entry name: %+v", nameVal)
	}
}
