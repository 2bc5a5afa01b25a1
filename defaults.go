package strictjson

const defaultMaxDepth = 1000

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// streamBufferSize is the initial buffer of the stream MarshalTo writes
// through.
const streamBufferSize = 512
