package session

import (
	"fmt"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

func (c *Connection) handleStatus(id int32, r *proto.Reader) error {
	switch id {
	case idStatusRequest:
		c.statusRequestSeen = true
		json := c.handler.StatusJSON()
		c.send(idStatusResponse, proto.WriteSizedString(nil, string(json)))
		return nil
	case idPingRequest:
		t, err := proto.ReadI64(r)
		if err != nil {
			return err
		}
		c.send(idPongResponse, proto.WriteI64(nil, t))
		if err := c.Flush(); err != nil {
			return err
		}
		c.Close()
		return nil
	default:
		return fmt.Errorf("%w: packet %#x in Status", ErrUnknownPacket, id)
	}
}
