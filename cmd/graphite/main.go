// Command graphite runs the server: it loads configuration, prepares the
// status responder and registry codec, and serves the acceptor/game-tick
// loop until interrupted.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/graphite-mc/graphite/server/config"
	"github.com/graphite-mc/graphite/server/game"
	"github.com/graphite-mc/graphite/server/log"
	"github.com/graphite-mc/graphite/server/session"
	"github.com/graphite-mc/graphite/server/status"
	"github.com/graphite-mc/graphite/server/world/registry"
)

func main() {
	logger := log.New()

	cfg, err := config.Load("config.toml")
	if err != nil {
		logger.Errorf("loading config: %v", err)
		os.Exit(1)
	}

	statusBuild, err := status.NewBuilder(status.Config{
		MOTD:        "A Graphite server",
		MaxPlayers:  20,
		VersionName: "1.20.4",
	})
	if err != nil {
		logger.Errorf("building status responder: %v", err)
		os.Exit(1)
	}

	tables, err := loadRegistryTables()
	if err != nil {
		logger.Errorf("loading registry tables: %v", err)
		os.Exit(1)
	}

	handler := game.NewHandler(logger, statusBuild, tables, func(p *game.Player) {
		logger.Infof("%s (%s) joined", p.Name, p.UUID)
	})

	srvCfg := session.ServerConfig{
		TickPeriod:           cfg.TickPeriod(),
		CompressionThreshold: cfg.Compression.Threshold,
	}
	srv := session.NewServer(srvCfg, handler, logger)

	ln, err := net.Listen("tcp", cfg.Network.Address)
	if err != nil {
		logger.Errorf("listening on %s: %v", cfg.Network.Address, err)
		os.Exit(1)
	}
	logger.Infof("listening on %s", cfg.Network.Address)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Serve(ctx, ln); err != nil {
		logger.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

// loadRegistryTables reads the dimension/biome/damage-type YAML tables
// from disk, falling back to a minimal built-in overworld-only set if the
// file is absent so the server can still boot on a fresh checkout.
func loadRegistryTables() (registry.Tables, error) {
	data, err := os.ReadFile("registry.yaml")
	if os.IsNotExist(err) {
		return defaultRegistryTables(), nil
	}
	if err != nil {
		return registry.Tables{}, err
	}
	return registry.Parse(data)
}

func defaultRegistryTables() registry.Tables {
	return registry.Tables{
		Dimensions: []registry.DimensionType{{
			Name:          "minecraft:overworld",
			Natural:       true,
			MinY:          -64,
			Height:        384,
			LogicalHeight: 384,
			HasSkylight:   true,
			BedWorks:      true,
		}},
		Biomes: []registry.Biome{{
			Name:          "minecraft:plains",
			Temperature:   0.8,
			Downfall:      0.4,
			Precipitation: "rain",
			SkyColor:      7907327,
		}},
		DamageTypes: []registry.DamageType{{
			Name:       "minecraft:generic",
			MessageID:  "generic",
			Scaling:    "when_caused_by_living_non_player",
			Exhaustion: 0.1,
		}},
	}
}
