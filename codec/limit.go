package codec

import "fmt"

// TooLargeError is returned by LimitCodec when the encoded payload exceeds
// the configured maximum.
type TooLargeError struct {
	Size, Max int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d > %d", e.Size, e.Max)
}

// LimitCodec wraps another codec to enforce a maximum encoded size.
// If MaxEncode <= 0, size limiting is disabled.
//
// Typical use: keep oversized documents out of a shared cache.
type LimitCodec struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec
	// MaxEncode is the maximum permitted length (in bytes) of the encoded
	// payload. Larger payloads are dropped and an error returned.
	MaxEncode int
}

func (c LimitCodec) Name() string { return c.Inner.Name() }

func (c LimitCodec) Encode(v any) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, &TooLargeError{Size: len(b), Max: c.MaxEncode}
	}
	return b, nil
}
