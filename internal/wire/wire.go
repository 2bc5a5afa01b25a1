package wire

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("strictjson: corrupt cache entry")
	magic4     = [...]byte{'S', 'J', 'D', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames an encoded document:
//
//	magic(4) | ver(1) | codecLen(u8) | codec(codecLen) | xxh64(u64 be) | plen(u32 be) | payload(plen)
//
// The checksum covers the payload only.
func Encode(codec string, payload []byte) []byte {
	if l := len(codec); l == 0 || l > 0xFF {
		panic("strictjson: invalid codec name length in frame")
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + len(codec) + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(len(codec)))
	buf.WriteString(codec)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], xxhash.Sum64(payload))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode validates a frame and returns the codec name and a payload slice
// aliasing b.
func Decode(b []byte) (codec string, payload []byte, err error) {
	const fixed = 4 + 1 + 1
	if len(b) < fixed || !hasMagic(b) || b[4] != version {
		return "", nil, ErrCorrupt
	}

	off := fixed

	// codec
	clen := int(b[5])
	if clen == 0 || clen > len(b)-off {
		return "", nil, ErrCorrupt
	}
	codec = string(b[off : off+clen])
	off += clen

	// checksum
	if off+8 > len(b) {
		return "", nil, ErrCorrupt
	}
	sum := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	// plen
	if off+4 > len(b) {
		return "", nil, ErrCorrupt
	}
	plen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if plen < 0 || plen != len(b)-off { // exact: trailing bytes are corruption
		return "", nil, ErrCorrupt
	}

	payload = b[off : off+plen]
	if xxhash.Sum64(payload) != sum {
		return "", nil, ErrCorrupt
	}
	return codec, payload, nil
}
