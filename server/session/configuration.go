package session

import (
	"fmt"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

func (c *Connection) handleConfiguration(id int32, r *proto.Reader) error {
	if id != idConfigFinishServerbound {
		return fmt.Errorf("%w: packet %#x in Configuration", ErrUnknownPacket, id)
	}
	c.phase = PhasePlay
	c.enterPlay()
	return nil
}

// enterPlay sends the Play-phase join burst (§8 scenario 3: JoinGame,
// PlayerPosition, GameEvent(StartWaitingForLevelChunks)) and hands the
// connection to the world/session Handler so it can start receiving
// tick-driven viewer traffic.
func (c *Connection) enterPlay() {
	var join []byte
	join = proto.WriteI32BE(join, 0) // entity_id
	join = proto.WriteBool(join, false)
	join = proto.WriteSizedString(join, "graphite:default_world")
	join = proto.WriteI32BE(join, 8) // view_distance
	join = proto.WriteU8(join, 1)    // gamemode: survival-creative etc, 1 == creative
	c.send(idJoinGame, join)

	teleportID := c.teleportIDs.Inc()
	c.teleportQueue = append(c.teleportQueue, teleportAwait{id: teleportID})

	var pos []byte
	pos = proto.WriteF64(pos, 0)
	pos = proto.WriteF64(pos, 400)
	pos = proto.WriteF64(pos, 0)
	pos = proto.WriteVarInt(pos, teleportID)
	c.send(idPlayerPositionSync, pos)

	var ev []byte
	ev = proto.WriteU8(ev, gameEventStartWaitingForLevelChunks)
	ev = proto.WriteF32(ev, 0)
	c.send(idGameEvent, ev)

	if c.handler != nil {
		c.handler.EnterPlay(c)
	}
}
