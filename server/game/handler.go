// Package game wires the session, status, registry, and inventory
// packages into the session.Handler a Connection calls into, and owns the
// live set of Play-phase players the game tick loop drives.
package game

import (
	"crypto/md5"
	"sync"

	"github.com/google/uuid"

	"github.com/graphite-mc/graphite/server/item/inventory"
	"github.com/graphite-mc/graphite/server/log"
	"github.com/graphite-mc/graphite/server/session"
	"github.com/graphite-mc/graphite/server/status"
	"github.com/graphite-mc/graphite/server/world/registry"
)

// Player is the live, Play-phase state a Handler tracks for one connected
// client: its connection, its inventory, and the identity it was
// assigned at Login.
type Player struct {
	Conn      *session.Connection
	Name      string
	UUID      uuid.UUID
	Inventory *inventory.Inventory
}

// Handler implements session.Handler, gluing a status builder and a
// pre-encoded registry codec into the connection lifecycle, and tracking
// players as they complete the join sequence.
type Handler struct {
	log         log.Logger
	statusBuild *status.Builder
	registryNBT []byte
	onJoin      func(*Player)

	mu      sync.Mutex
	players map[uuid.UUID]*Player
}

// NewHandler builds a Handler from a prepared status Builder and decoded
// registry Tables. onJoin is called once a connection reaches Play; it may
// be nil.
func NewHandler(logger log.Logger, statusBuild *status.Builder, tables registry.Tables, onJoin func(*Player)) *Handler {
	if logger == nil {
		logger = log.New()
	}
	return &Handler{
		log:         logger,
		statusBuild: statusBuild,
		registryNBT: tables.EncodeNBT(),
		onJoin:      onJoin,
		players:     make(map[uuid.UUID]*Player),
	}
}

// StatusJSON implements session.Handler.
func (h *Handler) StatusJSON() []byte {
	h.mu.Lock()
	online := len(h.players)
	h.mu.Unlock()
	out, err := h.statusBuild.Build(online, nil)
	if err != nil {
		h.log.Errorf("building status response: %v", err)
		return []byte(`{}`)
	}
	return out
}

// AssignProfile implements session.Handler. Without an external identity
// provider wired (a spec Non-goal), the server assigns the offline-mode
// deterministic UUID derived from the username the way vanilla servers do
// (offline/"OfflinePlayer:<name>" mode): a version-3 UUID built from the
// MD5 of "OfflinePlayer:<name>" alone, with no namespace prefix.
func (h *Handler) AssignProfile(name string, _ uuid.UUID) (string, uuid.UUID) {
	id := uuid.UUID(md5.Sum([]byte("OfflinePlayer:" + name)))
	id[6] = id[6]&0x0f | 0x30 // version 3
	id[8] = id[8]&0x3f | 0x80 // RFC 4122 variant
	return name, id
}

// RegistryDataNBT implements session.Handler.
func (h *Handler) RegistryDataNBT() []byte { return h.registryNBT }

// EnterPlay implements session.Handler: it registers the now-playing
// connection and its fresh inventory, then notifies onJoin.
func (h *Handler) EnterPlay(c *session.Connection) {
	p := &Player{
		Conn:      c,
		Name:      c.Username(),
		UUID:      c.UUID(),
		Inventory: inventory.New(),
	}
	h.mu.Lock()
	h.players[p.UUID] = p
	h.mu.Unlock()
	if h.onJoin != nil {
		h.onJoin(p)
	}
}
