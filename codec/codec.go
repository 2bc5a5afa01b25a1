// Package codec turns values into bytes for storage or transport. Every
// codec first reduces its input through a strictjson.Encoder, so the same
// converter chain and special-float rules apply to binary formats too.
package codec

import "github.com/unkn0wn-root/strictjson"

// Codec encodes values to []byte. Name identifies the format in framed
// storage (see doccache).
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
}

// normalize reduces v with e, or with the package default when e is nil.
func normalize(e *strictjson.Encoder, v any) (any, error) {
	if e == nil {
		return strictjson.Normalize(v)
	}
	return e.Normalize(v)
}
