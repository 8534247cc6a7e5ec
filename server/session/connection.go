package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/df-mc/atomic"
	"github.com/google/uuid"

	"github.com/graphite-mc/graphite/server/binary/packet"
	"github.com/graphite-mc/graphite/server/binary/proto"
	"github.com/graphite-mc/graphite/server/log"
)

// legacyPingSentinel is the three-byte prefix (§4.7/§8 scenario 1) that
// identifies a legacy (pre-netty) ping and must be rejected without
// sending any data.
var legacyPingSentinel = [3]byte{0xFE, 0x01, 0xFA}

// LoginInformation is the payload carried across the concierge -> game
// thread handoff channel (§5): everything the game thread needs to adopt
// a connection that has finished Login without re-touching the socket's
// pre-login state.
type LoginInformation struct {
	ProtocolVersion int32
	Host            string
	Port            uint16
	Name            string
	UUID            uuid.UUID
}

// Connection holds the per-socket state machine (§3). A Connection is
// single-threaded for its lifetime after the concierge -> game handoff;
// the only concurrent access it needs to tolerate is Close being called
// from a supervising goroutine.
type Connection struct {
	conn net.Conn
	log  log.Logger

	phase           Phase
	protocolVersion int32
	username        string
	id              uuid.UUID

	inbound  packet.InboundBuffer
	outbound packet.OutboundBuffer

	closed atomic.Bool

	teleportIDs   *atomic.Int32
	teleportQueue []teleportAwait

	keepAliveInterval   time.Duration
	keepAliveTimeout    time.Duration
	lastKeepAliveSentAt time.Time
	awaitingKeepAlive   bool
	keepAliveNonce      int64

	statusDeadline    time.Time
	statusRequestSeen bool

	// compressionThreshold is the configured SetCompression threshold;
	// <= 0 means compression is never negotiated for this connection.
	// compressionActive flips true once SetCompression has actually been
	// sent (§4.6 note on SetCompression), at which point every frame at or
	// above the threshold is zlib-wrapped per CompressFrame.
	compressionThreshold int
	compressionActive    bool

	handler Handler
}

// SetCompressionThreshold configures the SetCompression threshold a
// Connection negotiates during Login. Must be called before the
// connection reaches Login; threshold <= 0 leaves compression disabled.
func (c *Connection) SetCompressionThreshold(threshold int) {
	c.compressionThreshold = threshold
}

type teleportAwait struct {
	id       int32
	deadline time.Time // 20-tick grace window (§4.7), expressed as wall-clock
}

// Handler supplies the server-side data a Connection needs to answer
// protocol requests: status JSON, login profile assignment, and the
// Play-phase world hookup. Kept as an interface so session stays
// decoupled from the world/config packages that would otherwise create an
// import cycle.
type Handler interface {
	StatusJSON() []byte
	AssignProfile(name string, id uuid.UUID) (finalName string, finalID uuid.UUID)
	RegistryDataNBT() []byte
	EnterPlay(c *Connection)
}

// NewConnection wraps an accepted socket in the Handshake phase.
func NewConnection(conn net.Conn, handler Handler, logger log.Logger) *Connection {
	if logger == nil {
		logger = log.New()
	}
	return &Connection{
		conn:              conn,
		log:               logger,
		phase:             PhaseHandshake,
		teleportIDs:       atomic.NewInt32(0),
		statusDeadline:    time.Now().Add(10 * time.Second),
		keepAliveInterval: 10 * time.Second,
		keepAliveTimeout:  30 * time.Second,
		handler:           handler,
	}
}

// Phase returns the connection's current phase.
func (c *Connection) Phase() Phase { return c.phase }

// Closed reports whether the connection has already been closed.
func (c *Connection) Closed() bool { return c.closed.Load() }

// Username returns the name assigned during Login.
func (c *Connection) Username() string { return c.username }

// UUID returns the identity assigned during Login.
func (c *Connection) UUID() uuid.UUID { return c.id }

// Close idempotently tears down the connection (§5 "Cancellation").
func (c *Connection) Close() {
	if !c.closed.CAS(false, true) {
		return
	}
	_ = c.conn.Close()
}

// Feed appends freshly read socket bytes and processes every whole frame
// currently buffered, dispatching each to the phase-appropriate handler.
// A fatal error closes the connection and is returned to the caller for
// logging.
func (c *Connection) Feed(data []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.phase == PhaseHandshake && len(data) >= 3 {
		var prefix [3]byte
		copy(prefix[:], data[:3])
		if prefix == legacyPingSentinel {
			c.log.Debugf("rejecting legacy ping")
			c.Close()
			return fmt.Errorf("%w: legacy ping", ErrProtocolViolation)
		}
	}

	c.inbound.Feed(data)
	for {
		payload, ok, err := c.inbound.Next()
		if err != nil {
			c.Close()
			if errors.Is(err, packet.ErrFrameTooLarge) {
				return fmt.Errorf("%w: %w", ErrProtocolViolation, err)
			}
			return err
		}
		if !ok {
			return nil
		}
		if err := c.dispatch(payload); err != nil {
			c.Close()
			return err
		}
	}
}

func (c *Connection) dispatch(payload []byte) error {
	if c.compressionActive {
		decompressed, err := packet.DecompressFrame(payload)
		if err != nil {
			return err
		}
		payload = decompressed
	}
	r := proto.NewReader(payload)
	id, err := proto.ReadVarInt(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownPacket, err)
	}
	switch c.phase {
	case PhaseHandshake:
		return c.handleHandshake(int32(id), r)
	case PhaseStatus:
		return c.handleStatus(int32(id), r)
	case PhaseLogin:
		return c.handleLogin(int32(id), r)
	case PhaseConfiguration:
		return c.handleConfiguration(int32(id), r)
	case PhasePlay:
		return c.handlePlay(int32(id), r)
	default:
		return fmt.Errorf("%w: phase %s", ErrUnknownPacket, c.phase)
	}
}

// send frames and queues a packet id + body into the outbound buffer.
// Flush (driven by the tick loop, or directly for pre-login replies)
// writes it to the socket.
func (c *Connection) send(id int32, body []byte) {
	var buf []byte
	buf = proto.WriteVarInt(buf, id)
	buf = append(buf, body...)
	if c.compressionActive {
		compressed, err := packet.CompressFrame(buf, c.compressionThreshold)
		if err != nil {
			c.log.Errorf("compressing packet %#x: %v", id, err)
			return
		}
		buf = compressed
	}
	c.outbound.WritePacket(buf)
}

// Flush writes the buffered outbound bytes to the socket and clears the
// buffer (§4.8 step 3). The write is a single blocking conn.Write with no
// deadline. The buffer is cleared even when the write fails, so bytes left
// unwritten by an error are dropped rather than queued for the next Flush.
func (c *Connection) Flush() error {
	out := c.outbound.Bytes()
	if len(out) == 0 {
		return nil
	}
	_, err := c.conn.Write(out)
	c.outbound.Reset()
	return err
}

func uuidToU128(id uuid.UUID) (hi, lo uint64) {
	return binary.BigEndian.Uint64(id[:8]), binary.BigEndian.Uint64(id[8:])
}

func u128ToUUID(hi, lo uint64) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id
}
