package session

import "errors"

// Error taxonomy from §7. InsufficientBytes is represented structurally
// (packet.FrameResult.Partial), not as one of these sentinels.
var (
	// ErrProtocolViolation covers legacy-ping bytes, an unexpected
	// next-state, a teleport-id mismatch past its grace window, and an
	// oversized packet — all fatal to the connection.
	ErrProtocolViolation = errors.New("session: protocol violation")
	// ErrUnknownPacket is a DecodeError variant: an unrecognized packet id
	// for the connection's current phase.
	ErrUnknownPacket = errors.New("session: unknown packet id for phase")
	// ErrClosed is returned by operations attempted on an already-closed
	// connection; per §5 this is idempotent, not an escalating failure.
	ErrClosed = errors.New("session: connection closed")
)
