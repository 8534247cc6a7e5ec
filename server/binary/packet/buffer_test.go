package packet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphite-mc/graphite/server/binary/packet"
)

func TestWriteFrameSmallUsesOneByteHeader(t *testing.T) {
	body := make([]byte, 50)
	frame := packet.WriteFrame(nil, body)
	require.Equal(t, byte(50), frame[0])
	require.Len(t, frame, 1+50)
}

func TestWriteFrameLargeUsesPaddedHeader(t *testing.T) {
	body := make([]byte, 200)
	frame := packet.WriteFrame(nil, body)
	require.Len(t, frame, 3+200)

	res, err := packet.ReadFrame(frame)
	require.NoError(t, err)
	require.False(t, res.Partial)
	require.Equal(t, body, res.Payload)
	require.Equal(t, len(frame), res.Consumed)
}

func TestReadFrameTwoByteLookaheadNotRequired(t *testing.T) {
	// [1, x]: a complete one-byte payload, must not need a third byte.
	res, err := packet.ReadFrame([]byte{1, 0x42})
	require.NoError(t, err)
	require.False(t, res.Partial)
	require.Equal(t, []byte{0x42}, res.Payload)
	require.Equal(t, 2, res.Consumed)
}

func TestReadFramePartialLength(t *testing.T) {
	res, err := packet.ReadFrame([]byte{0x80})
	require.NoError(t, err)
	require.True(t, res.Partial)
}

func TestReadFramePartialPayload(t *testing.T) {
	res, err := packet.ReadFrame([]byte{5, 1, 2})
	require.NoError(t, err)
	require.True(t, res.Partial)
}

func TestReadFrameRejectsOverMaxLength(t *testing.T) {
	big := []byte{0xFF, 0xFF, 0x7F} // the maximum 3-byte varint, 2097151, over the 2097148 ceiling
	_, err := packet.ReadFrame(big)
	require.ErrorIs(t, err, packet.ErrFrameTooLarge)
}

// TestInboundBufferArbitraryChunking validates that splitting the same
// stream of frames at every possible byte boundary yields the identical
// sequence of payloads (§8's framer round-trip property).
func TestInboundBufferArbitraryChunking(t *testing.T) {
	var stream []byte
	want := [][]byte{
		{1, 2, 3},
		make([]byte, 200),
		nil, // a zero-length payload round-trips to nil, not an empty non-nil slice
		{9},
	}
	for _, w := range want {
		stream = packet.WriteFrame(stream, w)
	}

	for split := 0; split <= len(stream); split++ {
		var buf packet.InboundBuffer
		buf.Feed(stream[:split])
		buf.Feed(stream[split:])

		var got [][]byte
		for {
			payload, ok, err := buf.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			got = append(got, payload)
		}
		require.Equal(t, want, got, "split at byte %d", split)
	}
}

func TestOutboundBufferPreservesInsertionOrder(t *testing.T) {
	var out packet.OutboundBuffer
	out.WritePacket([]byte{1})
	out.WritePacket([]byte{2, 2})
	out.WritePacket([]byte{3, 3, 3})

	var in packet.InboundBuffer
	in.Feed(out.Bytes())

	var got [][]byte
	for {
		p, ok, err := in.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, p)
	}
	require.Equal(t, [][]byte{{1}, {2, 2}, {3, 3, 3}}, got)

	out.Reset()
	require.Empty(t, out.Bytes())
}
