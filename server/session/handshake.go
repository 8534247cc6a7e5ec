package session

import (
	"fmt"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

// Intention is the single Handshake-phase packet (§3/§6).
type Intention struct {
	ProtocolVersion int32
	Host            string
	Port            uint16
	Next            int32 // 1 = Status, 2 = Login
}

func readIntention(r *proto.Reader) (Intention, error) {
	var in Intention
	var err error
	if in.ProtocolVersion, err = proto.ReadVarInt(r); err != nil {
		return in, err
	}
	if in.Host, err = proto.ReadSizedString(r, 255); err != nil {
		return in, err
	}
	if in.Port, err = proto.ReadU16(r); err != nil {
		return in, err
	}
	if in.Next, err = proto.ReadVarInt(r); err != nil {
		return in, err
	}
	return in, nil
}

func (c *Connection) handleHandshake(id int32, r *proto.Reader) error {
	if id != idIntention {
		return fmt.Errorf("%w: packet %#x in Handshake", ErrUnknownPacket, id)
	}
	in, err := readIntention(r)
	if err != nil {
		return err
	}
	c.protocolVersion = in.ProtocolVersion
	switch in.Next {
	case 1:
		c.phase = PhaseStatus
	case 2:
		c.phase = PhaseLogin
	default:
		return fmt.Errorf("%w: unexpected next_state %d", ErrProtocolViolation, in.Next)
	}
	return nil
}
