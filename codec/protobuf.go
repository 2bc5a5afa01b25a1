package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/strictjson"
)

// Protobuf encodes normalized values as a google.protobuf.Value message.
// The zero value is ready to use.
type Protobuf struct {
	Enc           *strictjson.Encoder
	Deterministic bool
}

var _ Codec = Protobuf{}

func (Protobuf) Name() string { return "protobuf" }

// Value returns the structpb form of v. Integers become doubles, as
// google.protobuf.Value has no integer kind.
func (c Protobuf) Value(v any) (*structpb.Value, error) {
	tree, err := normalize(c.Enc, v)
	if err != nil {
		return nil, err
	}
	p, err := plain(tree)
	if err != nil {
		return nil, err
	}
	return structpb.NewValue(p)
}

func (c Protobuf) Encode(v any) ([]byte, error) {
	pv, err := c.Value(v)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: c.Deterministic}.Marshal(pv)
}
