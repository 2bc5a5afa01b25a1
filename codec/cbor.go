package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/strictjson"
)

// CBOR encodes normalized values with fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs (e.g., hashing/content addressing).
// Otherwise PreferredUnsortedEncOptions are used.
// Special floats are already null by the time CBOR sees them.
type CBOR struct {
	enc *strictjson.Encoder
	em  cbor.EncMode
}

var _ Codec = CBOR{}

// NewCBOR constructs a CBOR codec. A nil encoder means default options.
func NewCBOR(enc *strictjson.Encoder, deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: enc, em: em}, nil
}

// MustCBOR is like NewCBOR but panics on error.
func MustCBOR(enc *strictjson.Encoder, deterministic bool) CBOR {
	c, err := NewCBOR(enc, deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (CBOR) Name() string { return "cbor" }

func (c CBOR) Encode(v any) ([]byte, error) {
	tree, err := normalize(c.enc, v)
	if err != nil {
		return nil, err
	}
	p, err := plain(tree)
	if err != nil {
		return nil, err
	}
	return c.em.Marshal(p)
}
