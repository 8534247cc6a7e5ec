package session

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/graphite-mc/graphite/server/binary/packet"
	"github.com/graphite-mc/graphite/server/binary/proto"
)

type fakeHandler struct {
	statusJSON   []byte
	registryNBT  []byte
	enteredPlay  bool
	assignedName string
	assignedID   uuid.UUID
}

func (h *fakeHandler) StatusJSON() []byte { return h.statusJSON }

func (h *fakeHandler) AssignProfile(name string, id uuid.UUID) (string, uuid.UUID) {
	h.assignedName, h.assignedID = name, id
	return name, id
}

func (h *fakeHandler) RegistryDataNBT() []byte { return h.registryNBT }

func (h *fakeHandler) EnterPlay(c *Connection) { h.enteredPlay = true }

func writeIntention(t *testing.T, protocolVersion int32, next int32) []byte {
	t.Helper()
	var body []byte
	body = proto.WriteVarInt(body, idIntention)
	body = proto.WriteVarInt(body, protocolVersion)
	body = proto.WriteSizedString(body, "localhost")
	body = proto.WriteU16(body, 25565)
	body = proto.WriteVarInt(body, next)
	return framePacket(body)
}

func framePacket(body []byte) []byte {
	var out []byte
	out = proto.WriteVarInt(out, int32(len(body)))
	return append(out, body...)
}

func newTestConnection(h Handler) (*Connection, net.Conn) {
	server, client := net.Pipe()
	c := NewConnection(server, h, nil)
	return c, client
}

func TestStatusHandshakeRoundTrip(t *testing.T) {
	h := &fakeHandler{statusJSON: []byte(`{"version":{"protocol":765}}`)}
	c, client := newTestConnection(h)
	// net.Pipe is unbuffered: drain the client end so the pong Flush can
	// complete.
	go func() { _, _ = io.Copy(io.Discard, client) }()

	require.NoError(t, c.Feed(writeIntention(t, 765, 1)))
	require.Equal(t, PhaseStatus, c.Phase())

	var req []byte
	req = proto.WriteVarInt(req, idStatusRequest)
	require.NoError(t, c.Feed(framePacket(req)))
	require.True(t, c.statusRequestSeen)

	var ping []byte
	ping = proto.WriteVarInt(ping, idPingRequest)
	ping = proto.WriteI64(ping, 0x0102030405060708)
	require.NoError(t, c.Feed(framePacket(ping)))
	require.True(t, c.Closed())
}

func TestLoginThroughConfigurationReachesPlay(t *testing.T) {
	h := &fakeHandler{registryNBT: []byte{0x0a, 0x00}}
	c, _ := newTestConnection(h)

	require.NoError(t, c.Feed(writeIntention(t, 765, 2)))
	require.Equal(t, PhaseLogin, c.Phase())

	id := uuid.New()
	var hello []byte
	hello = proto.WriteVarInt(hello, idHello)
	hello = proto.WriteSizedString(hello, "Steve")
	hi, lo := uuidToU128(id)
	hello = proto.WriteU128(hello, hi, lo)
	require.NoError(t, c.Feed(framePacket(hello)))
	require.Equal(t, "Steve", h.assignedName)

	var ack []byte
	ack = proto.WriteVarInt(ack, idLoginAcknowledged)
	require.NoError(t, c.Feed(framePacket(ack)))
	require.Equal(t, PhaseConfiguration, c.Phase())

	var fin []byte
	fin = proto.WriteVarInt(fin, idConfigFinishServerbound)
	require.NoError(t, c.Feed(framePacket(fin)))
	require.Equal(t, PhasePlay, c.Phase())
	require.True(t, h.enteredPlay)
	require.Len(t, c.teleportQueue, 1)
}

func TestLegacyPingClosesConnection(t *testing.T) {
	h := &fakeHandler{}
	c, _ := newTestConnection(h)
	err := c.Feed([]byte{0xFE, 0x01, 0xFA, 0x00})
	require.ErrorIs(t, err, ErrProtocolViolation)
	require.True(t, c.Closed())
}

func TestTeleportAcceptClearsQueue(t *testing.T) {
	h := &fakeHandler{}
	c, _ := newTestConnection(h)
	c.phase = PhasePlay
	c.teleportQueue = []teleportAwait{{id: 7}}

	var body []byte
	body = proto.WriteVarInt(body, idAcceptTeleportation)
	body = proto.WriteVarInt(body, 7)
	require.NoError(t, c.Feed(framePacket(body)))
	require.Empty(t, c.teleportQueue)
}

func TestTeleportGraceExpiresAfterDeadline(t *testing.T) {
	h := &fakeHandler{}
	c, _ := newTestConnection(h)
	c.phase = PhasePlay
	c.teleportQueue = []teleportAwait{{id: 1}}

	now := time.Now()
	require.NoError(t, c.Tick(now))
	require.False(t, c.teleportQueue[0].deadline.IsZero())

	require.Error(t, c.Tick(now.Add(teleportGrace+time.Second)))
	require.True(t, c.Closed())
}

func TestKeepAliveSendsThenTimesOut(t *testing.T) {
	h := &fakeHandler{}
	c, _ := newTestConnection(h)
	c.phase = PhasePlay
	c.keepAliveInterval = time.Millisecond
	c.keepAliveTimeout = 5 * time.Millisecond

	now := time.Now()
	require.NoError(t, c.Tick(now))
	require.True(t, c.awaitingKeepAlive)

	require.Error(t, c.Tick(now.Add(10*time.Millisecond)))
	require.True(t, c.Closed())
}

func TestCompressionNegotiatedDuringLogin(t *testing.T) {
	h := &fakeHandler{registryNBT: []byte{0x0a, 0x00}}
	c, _ := newTestConnection(h)
	c.SetCompressionThreshold(4)

	require.NoError(t, c.Feed(writeIntention(t, 765, 2)))

	id := uuid.New()
	var hello []byte
	hello = proto.WriteVarInt(hello, idHello)
	hello = proto.WriteSizedString(hello, "Steve")
	hi, lo := uuidToU128(id)
	hello = proto.WriteU128(hello, hi, lo)
	require.NoError(t, c.Feed(framePacket(hello)))

	require.True(t, c.compressionActive)

	// Everything queued so far (SetCompression, then LoginSuccess) must be
	// readable back out frame by frame: SetCompression itself goes out
	// uncompressed, and LoginSuccess's inner payload starts with its packet
	// id once decompressed.
	var in packet.InboundBuffer
	in.Feed(c.outbound.Bytes())

	setCompressionBody, ok, err := in.Next()
	require.NoError(t, err)
	require.True(t, ok)
	r := proto.NewReader(setCompressionBody)
	packetID, err := proto.ReadVarInt(r)
	require.NoError(t, err)
	require.Equal(t, int32(idSetCompression), packetID)
	threshold, err := proto.ReadVarInt(r)
	require.NoError(t, err)
	require.Equal(t, int32(4), threshold)

	loginSuccessBody, ok, err := in.Next()
	require.NoError(t, err)
	require.True(t, ok)
	decoded, err := packet.DecompressFrame(loginSuccessBody)
	require.NoError(t, err)
	r = proto.NewReader(decoded)
	packetID, err = proto.ReadVarInt(r)
	require.NoError(t, err)
	require.Equal(t, int32(idLoginSuccess), packetID)
}

func TestKeepAliveAckClearsAwaiting(t *testing.T) {
	h := &fakeHandler{}
	c, _ := newTestConnection(h)
	c.phase = PhasePlay
	c.awaitingKeepAlive = true
	c.keepAliveNonce = 42

	var body []byte
	body = proto.WriteVarInt(body, idKeepAliveServerbound)
	body = proto.WriteI64(body, 42)
	require.NoError(t, c.Feed(framePacket(body)))
	require.False(t, c.awaitingKeepAlive)
}
