package session

import (
	"fmt"
	"time"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

// teleportGrace is the 20-tick window (§4.7) a client has to acknowledge
// the oldest pending teleport id before the connection is closed for
// protocol violation. Tick starts the window on the first tick that sees
// the teleport queued, whether or not a mismatched id has arrived; a
// mismatched AcceptTeleportation neither starts nor resets it. Expressed in
// wall-clock terms against the module's nominal 50ms tick period.
const teleportGrace = 20 * 50 * time.Millisecond

func (c *Connection) handlePlay(id int32, r *proto.Reader) error {
	switch id {
	case idAcceptTeleportation:
		tid, err := proto.ReadVarInt(r)
		if err != nil {
			return err
		}
		return c.acceptTeleport(tid)
	case idKeepAliveServerbound:
		nonce, err := proto.ReadI64(r)
		if err != nil {
			return err
		}
		if nonce == c.keepAliveNonce {
			c.awaitingKeepAlive = false
		}
		return nil
	case idMovePlayerPos, idMovePlayerPosRot, idMovePlayerRot, idMovePlayerOnGround,
		idClientInformation, idCustomPayload, idChatCommand, idSetCarriedItem,
		idSetCreativeModeSlot, idSwing, idUseItemOn, idUseItem:
		// Parsed by the world/session Handler this connection is attached
		// to; this package only owns framing and phase transitions for
		// these, not gameplay semantics.
		return nil
	default:
		return fmt.Errorf("%w: packet %#x in Play", ErrUnknownPacket, id)
	}
}

// acceptTeleport pops the oldest pending teleport id. A mismatch doesn't
// immediately close the connection; it's tolerated until that
// teleport's grace deadline, checked by Tick.
func (c *Connection) acceptTeleport(id int32) error {
	if len(c.teleportQueue) == 0 {
		return nil
	}
	head := c.teleportQueue[0]
	if head.id == id {
		c.teleportQueue = c.teleportQueue[1:]
		return nil
	}
	return nil
}

// Tick drives the time-based checks that don't arrive as inbound packets:
// the status-phase 10-second abort, keep-alive send/timeout, and teleport
// grace-window expiry. The caller (server.go's tick loop, or a test) is
// responsible for calling this roughly once per tick.
func (c *Connection) Tick(now time.Time) error {
	if c.closed.Load() {
		return nil
	}
	switch c.phase {
	case PhaseStatus:
		if !c.statusRequestSeen && now.After(c.statusDeadline) {
			c.Close()
			return fmt.Errorf("%w: status phase idle timeout", ErrProtocolViolation)
		}
	case PhasePlay:
		if err := c.tickKeepAlive(now); err != nil {
			return err
		}
		if err := c.tickTeleportGrace(now); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connection) tickKeepAlive(now time.Time) error {
	if c.awaitingKeepAlive {
		if now.Sub(c.lastKeepAliveSentAt) > c.keepAliveTimeout {
			c.Close()
			return fmt.Errorf("%w: keep-alive timeout", ErrProtocolViolation)
		}
		return nil
	}
	if now.Sub(c.lastKeepAliveSentAt) < c.keepAliveInterval {
		return nil
	}
	c.keepAliveNonce++
	c.lastKeepAliveSentAt = now
	c.awaitingKeepAlive = true
	c.send(idKeepAliveClientbound, proto.WriteI64(nil, c.keepAliveNonce))
	return nil
}

func (c *Connection) tickTeleportGrace(now time.Time) error {
	if len(c.teleportQueue) == 0 {
		return nil
	}
	head := c.teleportQueue[0]
	if head.deadline.IsZero() {
		c.teleportQueue[0].deadline = now.Add(teleportGrace)
		return nil
	}
	if now.After(head.deadline) {
		c.Close()
		return fmt.Errorf("%w: teleport acknowledgement grace expired", ErrProtocolViolation)
	}
	return nil
}
