package doccache

import (
	"time"

	"github.com/unkn0wn-root/strictjson"
	"github.com/unkn0wn-root/strictjson/codec"
	"github.com/unkn0wn-root/strictjson/provider"
)

const defaultTTL = 10 * time.Minute

// SetCostFunc returns the cost passed to Provider.Set for a framed entry.
type SetCostFunc func(key string, frame []byte) int64

type Options struct {
	Namespace string            // required
	Provider  provider.Provider // required
	Codec     codec.Codec       // required

	Logger strictjson.Logger // nil => NopLogger

	// DefaultTTL applies when a call passes ttl == 0. Zero means 10m.
	DefaultTTL time.Duration

	// Disabled turns the cache into a pass-through: reads miss, writes are
	// skipped and Encode always runs the codec.
	Disabled bool

	// ComputeSetCost defaults to the frame length.
	ComputeSetCost SetCostFunc
}
