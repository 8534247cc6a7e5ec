package session

import (
	"fmt"

	"github.com/graphite-mc/graphite/server/binary/proto"
)

func (c *Connection) handleLogin(id int32, r *proto.Reader) error {
	switch id {
	case idHello:
		name, err := proto.ReadSizedString(r, 16)
		if err != nil {
			return err
		}
		hi, lo, err := proto.ReadU128(r)
		if err != nil {
			return err
		}
		requested := u128ToUUID(hi, lo)

		finalName, finalID := c.handler.AssignProfile(name, requested)
		c.username, c.id = finalName, finalID

		if c.compressionThreshold > 0 {
			// Sent uncompressed: compressionActive flips only after this
			// packet is on the wire, so LoginSuccess is the first frame
			// the client is expected to decompress.
			c.send(idSetCompression, proto.WriteVarInt(nil, int32(c.compressionThreshold)))
			c.compressionActive = true
		}

		fhi, flo := uuidToU128(finalID)
		var body []byte
		body = proto.WriteU128(body, fhi, flo)
		body = proto.WriteSizedString(body, finalName)
		body = proto.WriteVarInt(body, 0) // zero signed-property entries
		c.send(idLoginSuccess, body)
		return nil
	case idLoginAcknowledged:
		c.phase = PhaseConfiguration
		// Immediately push the registry payload and finish-configuration
		// marker the client needs before it can send its own
		// FinishConfiguration ack (§8 scenario 3).
		c.send(idConfigRegistryData, proto.WriteGreedyBlob(nil, c.handler.RegistryDataNBT()))
		c.send(idConfigFinishClientbound, nil)
		return nil
	default:
		return fmt.Errorf("%w: packet %#x in Login", ErrUnknownPacket, id)
	}
}
