// Package config loads the operator-facing TOML configuration (§6):
// bind address, tick rate, world dimensions, and view distances.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// Config is the full set of settings §6 names as required inputs: bind
// address, tick rate, world dimensions (chunks_x, chunks_y, chunks_z),
// chunk view distance R, entity view distance E.
type Config struct {
	Network struct {
		Address string `toml:"address"`
	} `toml:"network"`

	Tick struct {
		RateHz int `toml:"rate_hz"`
	} `toml:"tick"`

	World struct {
		ChunksX int `toml:"chunks_x"`
		ChunksY int `toml:"chunks_y"`
		ChunksZ int `toml:"chunks_z"`
	} `toml:"world"`

	View struct {
		ChunkRadius  int32 `toml:"chunk_radius"`
		EntityRadius int32 `toml:"entity_radius"`
	} `toml:"view"`

	Compression struct {
		// Threshold is the SetCompression cutoff in bytes; <= 0 disables
		// packet compression entirely.
		Threshold int `toml:"threshold"`
	} `toml:"compression"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	var c Config
	c.Network.Address = "0.0.0.0:25565"
	c.Tick.RateHz = 20
	c.World.ChunksX, c.World.ChunksY, c.World.ChunksZ = 32, 24, 32
	c.View.ChunkRadius = 8
	c.View.EntityRadius = 6
	c.Compression.Threshold = 256
	return c
}

// TickPeriod converts the configured tick rate into a time.Duration for
// the session package's tick loop.
func (c Config) TickPeriod() time.Duration {
	if c.Tick.RateHz <= 0 {
		return 50 * time.Millisecond
	}
	return time.Second / time.Duration(c.Tick.RateHz)
}

// Load reads and parses a TOML config file. If path does not exist, it is
// created with the default configuration, mirroring the teacher's
// "write defaults on first run" config bootstrap.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		def := Default()
		if werr := write(path, def); werr != nil {
			return Config{}, fmt.Errorf("config: write default: %w", werr)
		}
		return def, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return c, nil
}

func write(path string, c Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
