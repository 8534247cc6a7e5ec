// Package status builds the server-list-ping JSON document (§6) a
// Connection's Handler hands back for StatusRequest. The template is
// authored as JSONC (JSON with // comments) so operators can annotate the
// player sample or MOTD fields the way the teacher's config loader lets
// operators annotate JSON config; jsonc.ToJSON strips the comments before
// unmarshalling.
package status

import (
	"encoding/json"
	"fmt"

	"github.com/muhammadmuzzammil1998/jsonc"
	"golang.org/x/mod/semver"
)

// ProtocolVersion is the numeric protocol id this module implements
// (1.20.4). SupportedVersionString is its semver-comparable form, used
// only to validate a configured version string at startup.
const (
	ProtocolVersion         = 765
	SupportedVersionString = "v1.20.4"
)

// Sample is one entry in the status response's players.sample list.
type Sample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Response is the decoded shape of the server-list-ping JSON (§6).
type Response struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int      `json:"max"`
		Online int      `json:"online"`
		Sample []Sample `json:"sample,omitempty"`
	} `json:"players"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Favicon string `json:"favicon,omitempty"`
}

// Config is the operator-facing template from which Builder fills in a
// Response (MOTD becomes description.text); ParseConfig reads it from a
// JSONC source that may carry // comments.
type Config struct {
	MOTD            string
	MaxPlayers      int
	Favicon         string
	VersionName     string
	VersionString   string // e.g. "v1.20.4"; validated against SupportedVersionString
}

// ParseConfig strips comments from a JSONC document and decodes it into a
// Config.
func ParseConfig(raw []byte) (Config, error) {
	var cfg Config
	clean := jsonc.ToJSON(raw)
	if err := json.Unmarshal(clean, &cfg); err != nil {
		return Config{}, fmt.Errorf("status: parse config: %w", err)
	}
	if cfg.VersionString != "" && !semver.IsValid(cfg.VersionString) {
		return Config{}, fmt.Errorf("status: invalid version string %q", cfg.VersionString)
	}
	if cfg.VersionString != "" && semver.Compare(cfg.VersionString, SupportedVersionString) != 0 {
		return Config{}, fmt.Errorf("status: configured version %q does not match supported %q", cfg.VersionString, SupportedVersionString)
	}
	return cfg, nil
}

// Builder assembles the live Response JSON each time a StatusRequest
// arrives, given the current online player count and sample.
type Builder struct {
	cfg Config
}

// NewBuilder validates cfg once at construction so later Build calls
// never fail.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.VersionString == "" {
		cfg.VersionString = SupportedVersionString
	}
	if !semver.IsValid(cfg.VersionString) {
		return nil, fmt.Errorf("status: invalid version string %q", cfg.VersionString)
	}
	return &Builder{cfg: cfg}, nil
}

// Build renders the current status JSON for online players/sample.
func (b *Builder) Build(online int, sample []Sample) ([]byte, error) {
	var resp Response
	resp.Version.Name = b.cfg.VersionName
	resp.Version.Protocol = ProtocolVersion
	resp.Players.Max = b.cfg.MaxPlayers
	resp.Players.Online = online
	resp.Players.Sample = sample
	resp.Description.Text = b.cfg.MOTD
	resp.Favicon = b.cfg.Favicon
	return json.Marshal(resp)
}
