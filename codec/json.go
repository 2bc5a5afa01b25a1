package codec

import "github.com/unkn0wn-root/strictjson"

// JSON is the strict JSON codec. The zero value uses default options.
type JSON struct {
	Enc *strictjson.Encoder
}

var _ Codec = JSON{}

func (JSON) Name() string { return "json" }

func (c JSON) Encode(v any) ([]byte, error) {
	if c.Enc == nil {
		return strictjson.Marshal(v)
	}
	return c.Enc.Marshal(v)
}
