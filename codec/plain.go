package codec

import (
	"encoding/json"
	"fmt"

	"github.com/unkn0wn-root/strictjson"
)

// plain rewrites a normalized tree with ordinary Go containers for
// formats that have no notion of ordered objects or number literals.
func plain(v any) (any, error) {
	switch x := v.(type) {
	case strictjson.Object:
		m := make(map[string]any, len(x))
		for _, mem := range x {
			p, err := plain(mem.Value)
			if err != nil {
				return nil, err
			}
			m[mem.Key] = p
		}
		return m, nil
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, el := range x {
			p, err := plain(el)
			if err != nil {
				return nil, err
			}
			m[k] = p
		}
		return m, nil
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			p, err := plain(el)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("codec: number %q: %w", string(x), err)
		}
		return f, nil
	}
	return v, nil
}
