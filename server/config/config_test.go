package config

import (
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Network.Address != "0.0.0.0:25565" {
		t.Fatalf("unexpected default address: %q", c.Network.Address)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again != c {
		t.Fatalf("second load should round-trip the written file: %+v vs %+v", again, c)
	}
}

func TestTickPeriod(t *testing.T) {
	c := Default()
	c.Tick.RateHz = 20
	if got := c.TickPeriod(); got.Milliseconds() != 50 {
		t.Fatalf("expected 50ms tick period at 20hz, got %v", got)
	}
}
