package codec

import (
	"github.com/klauspost/compress/zstd"
)

// Zstd compresses the output of another codec with klauspost/compress.
// Construct with NewZstd; Close releases the encoder.
type Zstd struct {
	inner Codec
	enc   *zstd.Encoder
}

var _ Codec = (*Zstd)(nil)

func NewZstd(inner Codec, level zstd.EncoderLevel) (*Zstd, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	return &Zstd{inner: inner, enc: enc}, nil
}

func (c *Zstd) Name() string { return c.inner.Name() + "+zstd" }

// Encode is safe for concurrent use.
func (c *Zstd) Encode(v any) ([]byte, error) {
	b, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(b, make([]byte, 0, len(b)/2)), nil
}

func (c *Zstd) Close() error { return c.enc.Close() }
