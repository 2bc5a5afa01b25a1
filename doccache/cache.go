package doccache

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/strictjson"
	"github.com/unkn0wn-root/strictjson/codec"
	"github.com/unkn0wn-root/strictjson/internal/util"
	"github.com/unkn0wn-root/strictjson/internal/wire"
	"github.com/unkn0wn-root/strictjson/provider"
)

var (
	ErrNoProvider  = errors.New("doccache: provider is required")
	ErrNoCodec     = errors.New("doccache: codec is required")
	ErrNoNamespace = errors.New("doccache: namespace is required")
)

type Cache struct {
	ns             string
	provider       provider.Provider
	codec          codec.Codec
	log            strictjson.Logger
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
}

func New(opts Options) (*Cache, error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	if opts.Codec == nil {
		return nil, ErrNoCodec
	}
	if opts.Namespace == "" {
		return nil, ErrNoNamespace
	}

	c := &Cache{
		ns:             opts.Namespace,
		provider:       opts.Provider,
		codec:          opts.Codec,
		log:            opts.Logger,
		enabled:        !opts.Disabled,
		defaultTTL:     opts.DefaultTTL,
		computeSetCost: opts.ComputeSetCost,
	}

	// defaults
	if c.log == nil {
		c.log = strictjson.NopLogger{}
	}
	if c.defaultTTL == 0 {
		c.defaultTTL = defaultTTL
	}
	if c.computeSetCost == nil {
		c.computeSetCost = func(_ string, frame []byte) int64 { return int64(len(frame)) }
	}
	return c, nil
}

func (c *Cache) Enabled() bool { return c.enabled }

func (c *Cache) Close(ctx context.Context) error {
	return c.provider.Close(ctx)
}

func (c *Cache) key(key string) string { return util.DocKey(c.ns, key) }

// Get returns the cached document for key. The returned slice is owned by
// the caller.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.enabled {
		return nil, false, nil
	}
	k := c.key(key)
	raw, ok, err := c.provider.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}

	name, payload, err := wire.Decode(raw)
	if err != nil {
		c.heal(ctx, k, key, "corrupt frame")
		return nil, false, nil
	}
	if name != c.codec.Name() {
		c.heal(ctx, k, key, "codec mismatch")
		return nil, false, nil
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

func (c *Cache) heal(ctx context.Context, k, key, reason string) {
	err := c.provider.Del(ctx, k)
	f := strictjson.Fields{"ns": c.ns, "key": key, "reason": reason}
	if err != nil {
		f["err"] = err.Error()
	}
	c.log.Warn("doccache.self_heal", f)
}

// Encode returns the cached document for key or encodes v, stores it and
// returns the fresh bytes. A failed store is logged, not returned: the
// encoded document is still valid.
func (c *Cache) Encode(ctx context.Context, key string, v any, ttl time.Duration) ([]byte, error) {
	if b, ok, err := c.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return b, nil
	}

	payload, err := c.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, key, payload, ttl); err != nil {
		c.log.Warn("doccache.store_failed", strictjson.Fields{"ns": c.ns, "key": key, "err": err.Error()})
	}
	return payload, nil
}

// Set encodes v and stores it under key, replacing any previous entry.
func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	payload, err := c.codec.Encode(v)
	if err != nil {
		return err
	}
	return c.store(ctx, key, payload, ttl)
}

// Invalidate drops the cached document for key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	if err := c.provider.Del(ctx, c.key(key)); err != nil {
		return err
	}
	c.log.Debug("doccache.invalidated", strictjson.Fields{"ns": c.ns, "key": key})
	return nil
}

// ttl == 0 uses the default; ttl < 0 stores without expiry.
func (c *Cache) store(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	switch {
	case ttl == 0:
		ttl = c.defaultTTL
	case ttl < 0:
		ttl = 0
	}

	k := c.key(key)
	frame := wire.Encode(c.codec.Name(), payload)
	ok, err := c.provider.Set(ctx, k, frame, c.computeSetCost(k, frame), ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Info("doccache.set_rejected", strictjson.Fields{"ns": c.ns, "key": key, "size": len(frame)})
	}
	return nil
}
