// Package packet implements the length-prefixed framing layer (C6) that
// sits between the raw socket and the schema decoders in server/binary/proto:
// outbound packets get a minimal-or-padded varint length header, inbound
// bytes are split back into whole packets as they arrive.
package packet

import (
	"errors"

	"github.com/graphite-mc/graphite/server/binary/varint"
)

// smallPacketThreshold is the largest payload (packet_id + body) that gets
// a direct 1-byte length header; anything larger reserves the 3-byte
// padded header instead (§4.6).
const smallPacketThreshold = 126

// paddedHeaderWidth is the fixed header width used for large packets;
// WriteFrame encodes the body length into it with varint.EncodePadded.
const paddedHeaderWidth = 3

// maxFrameLength is the largest length header value accepted on decode
// (§4.6: reject values over 2097148, leaving headroom inside the 3-byte
// varint's 2097151 ceiling).
const maxFrameLength = 2097148

var (
	// ErrFrameTooLarge is fatal for the connection (§4.6).
	ErrFrameTooLarge = errors.New("packet: frame exceeds maximum length")
	// ErrMalformedLength is fatal for the connection.
	ErrMalformedLength = errors.New("packet: malformed length varint")
)

// WriteFrame appends a length-prefixed frame wrapping body (which already
// includes the packet id) to buf, choosing the 1-byte or 3-byte padded
// header form depending on size.
func WriteFrame(buf []byte, body []byte) []byte {
	n := len(body)
	if n <= smallPacketThreshold {
		small, size := varint.EncodeI32(int32(n))
		buf = append(buf, small[:size]...)
		buf = append(buf, body...)
		return buf
	}
	buf = append(buf, varint.EncodePadded(uint32(n), paddedHeaderWidth)...)
	buf = append(buf, body...)
	return buf
}

// FrameResult is the outcome of a single ReadFrame call.
type FrameResult struct {
	Payload  []byte // valid only when Partial is false and Err is nil
	Consumed int    // bytes consumed from the input, including the header
	Partial  bool   // true when fewer bytes are buffered than the frame needs
}

// ReadFrame attempts to extract one whole frame from the front of buf. A
// two-byte buffer [1, x] must be recognized as the complete one-byte
// payload [x] without requiring a third byte of lookahead (§4.6) — this
// falls directly out of decoding the length with DecodeU21 and then
// checking only the decoded length against what remains.
func ReadFrame(buf []byte) (FrameResult, error) {
	length, headerSize, err := varint.DecodeU21(buf)
	if err != nil {
		if errors.Is(err, varint.ErrNotEnoughBytes) {
			return FrameResult{Partial: true}, nil
		}
		return FrameResult{}, ErrMalformedLength
	}
	if length > maxFrameLength {
		return FrameResult{}, ErrFrameTooLarge
	}
	total := headerSize + int(length)
	if len(buf) < total {
		return FrameResult{Partial: true}, nil
	}
	return FrameResult{
		Payload:  buf[headerSize:total],
		Consumed: total,
	}, nil
}

// InboundBuffer accumulates bytes read off a socket and yields whole
// frames as they become available, retaining any trailing partial frame
// across reads (§4.6 "partial ⇒ keep bytes for next read").
type InboundBuffer struct {
	data []byte
}

// Feed appends newly read bytes.
func (b *InboundBuffer) Feed(p []byte) { b.data = append(b.data, p...) }

// Next pops the next whole frame, if one is fully buffered. ok is false
// with a nil error when more bytes are needed.
func (b *InboundBuffer) Next() (payload []byte, ok bool, err error) {
	res, err := ReadFrame(b.data)
	if err != nil {
		return nil, false, err
	}
	if res.Partial {
		return nil, false, nil
	}
	payload = append([]byte(nil), res.Payload...)
	b.data = b.data[res.Consumed:]
	return payload, true, nil
}

// OutboundBuffer accumulates framed packets for a single flush to the
// socket, matching the append-only, single-send-per-tick buffer the
// connection and view layers share (§5 "Packets produced for a given
// player within one tick are delivered in insertion order").
type OutboundBuffer struct {
	data []byte
}

// WritePacket frames body and appends it.
func (b *OutboundBuffer) WritePacket(body []byte) { b.data = WriteFrame(b.data, body) }

// Bytes returns the buffered, already-framed bytes ready to write to the
// socket.
func (b *OutboundBuffer) Bytes() []byte { return b.data }

// Reset clears the buffer, called once its bytes have been handed to the
// socket.
func (b *OutboundBuffer) Reset() { b.data = b.data[:0] }
