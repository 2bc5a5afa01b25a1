package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/strictjson"
)

// Msgpack encodes normalized values with vmihailenco/msgpack/v5.
// The zero value is ready to use. Object member order is kept.
type Msgpack struct {
	Enc *strictjson.Encoder
}

var _ Codec = Msgpack{}

func (Msgpack) Name() string { return "msgpack" }

func (c Msgpack) Encode(v any) ([]byte, error) {
	tree, err := normalize(c.Enc, v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writeMsgpack(msgpack.NewEncoder(&buf), tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMsgpack(e *msgpack.Encoder, v any) error {
	switch x := v.(type) {
	case nil:
		return e.EncodeNil()
	case bool:
		return e.EncodeBool(x)
	case string:
		return e.EncodeString(x)
	case int64:
		return e.EncodeInt(x)
	case uint64:
		return e.EncodeUint(x)
	case float64:
		return e.EncodeFloat64(x)
	case json.Number:
		p, err := plain(x)
		if err != nil {
			return err
		}
		return e.Encode(p)
	case []any:
		if err := e.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, el := range x {
			if err := writeMsgpack(e, el); err != nil {
				return err
			}
		}
		return nil
	case strictjson.Object:
		if err := e.EncodeMapLen(len(x)); err != nil {
			return err
		}
		for _, m := range x {
			if err := e.EncodeString(m.Key); err != nil {
				return err
			}
			if err := writeMsgpack(e, m.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("codec: msgpack: unexpected %T in normalized tree", v)
}
