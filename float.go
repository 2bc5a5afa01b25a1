package strictjson

import (
	"math"

	jsoniter "github.com/json-iterator/go"
)

// specialKind names a special float, or returns "" for finite values.
func specialKind(f float64) string {
	switch {
	case f != f:
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return ""
}

// writeSpecial writes NaN, +Inf or -Inf as null. In strict mode the value
// fails the whole call instead.
func (e *Encoder) writeSpecial(s *jsoniter.Stream, f float64, kind string) {
	st := stateOf(s)
	if st.err != nil {
		return
	}
	e.hooks.SpecialFloat(kind)
	if e.strictFloats {
		st.fail(s, &UnsupportedFloatError{Value: f})
		return
	}
	s.WriteNil()
}
