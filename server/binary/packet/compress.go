package packet

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/graphite-mc/graphite/server/binary/varint"
)

// ErrMalformedCompressedFrame is returned when a compressed frame's inner
// data-length varint or zlib stream can't be parsed.
var ErrMalformedCompressedFrame = errors.New("packet: malformed compressed frame")

// CompressFrame wraps body (packet id + fields) in the compressed frame
// format negotiated by SetCompression: a varint holding the uncompressed
// length, followed either by body verbatim (when body is smaller than
// threshold, per the format's "0 means not compressed" convention) or its
// zlib-compressed form. With threshold <= 0 every body is compressed;
// connections with a threshold <= 0 never negotiate compression and do not
// call CompressFrame.
func CompressFrame(body []byte, threshold int) ([]byte, error) {
	if len(body) < threshold {
		zero, size := varint.EncodeI32(0)
		buf := append([]byte(nil), zero[:size]...)
		return append(buf, body...), nil
	}

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	length, size := varint.EncodeI32(int32(len(body)))
	buf := append([]byte(nil), length[:size]...)
	return append(buf, compressed.Bytes()...), nil
}

// DecompressFrame reverses CompressFrame: it reads the leading data-length
// varint and either returns the remainder verbatim (length 0) or inflates
// it with zlib.
func DecompressFrame(frame []byte) ([]byte, error) {
	dataLength, n, err := varint.DecodeI32(frame)
	if err != nil {
		return nil, ErrMalformedCompressedFrame
	}
	rest := frame[n:]
	if dataLength == 0 {
		return rest, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, ErrMalformedCompressedFrame
	}
	defer r.Close()

	out := make([]byte, dataLength)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ErrMalformedCompressedFrame
	}
	return out, nil
}
