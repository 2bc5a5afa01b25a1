package doccache

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/strictjson"
	"github.com/unkn0wn-root/strictjson/codec"
	"github.com/unkn0wn-root/strictjson/internal/wire"
	pr "github.com/unkn0wn-root/strictjson/provider"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memProvider struct {
	mu      sync.Mutex
	m       map[string]memEntry
	lastTTL time.Duration
	lastCst int64
	reject  bool
	getErr  error
	setErr  error
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastTTL, p.lastCst = ttl, cost
	if p.setErr != nil {
		return false, p.setErr
	}
	if p.reject {
		return false, nil
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, exp: exp}
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(_ context.Context) error { return nil }

func (p *memProvider) has(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.m[key]
	return ok
}

type countingCodec struct {
	codec.Codec
	mu sync.Mutex
	n  int
}

func (c *countingCodec) Encode(v any) ([]byte, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return c.Codec.Encode(v)
}

func (c *countingCodec) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type logEntry struct {
	level, msg string
	f          strictjson.Fields
}

type recLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recLogger) add(level, msg string, f strictjson.Fields) {
	l.mu.Lock()
	l.entries = append(l.entries, logEntry{level, msg, f})
	l.mu.Unlock()
}

func (l *recLogger) Debug(m string, f strictjson.Fields) { l.add("debug", m, f) }
func (l *recLogger) Info(m string, f strictjson.Fields)  { l.add("info", m, f) }
func (l *recLogger) Warn(m string, f strictjson.Fields)  { l.add("warn", m, f) }
func (l *recLogger) Error(m string, f strictjson.Fields) { l.add("error", m, f) }

func (l *recLogger) find(level, msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func newTestCache(t *testing.T, mp pr.Provider, optsOpt func(*Options)) *Cache {
	t.Helper()
	opts := Options{
		Namespace: "attrs",
		Provider:  mp,
		Codec:     codec.JSON{},
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewValidation(t *testing.T) {
	mp := newMemProvider()
	cases := []struct {
		name string
		opts Options
		want error
	}{
		{"no provider", Options{Namespace: "n", Codec: codec.JSON{}}, ErrNoProvider},
		{"no codec", Options{Namespace: "n", Provider: mp}, ErrNoCodec},
		{"no namespace", Options{Provider: mp, Codec: codec.JSON{}}, ErrNoNamespace},
	}
	for _, tc := range cases {
		if _, err := New(tc.opts); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}

func TestEncodeCachesOutput(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := &countingCodec{Codec: codec.JSON{}}
	c := newTestCache(t, mp, func(o *Options) { o.Codec = cc })
	defer c.Close(ctx)

	doc := map[string]any{"b": math.NaN(), "a": []any{1, "x"}}
	first, err := c.Encode(ctx, "42", doc, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `{"a":[1,"x"],"b":null}`; string(first) != want {
		t.Fatalf("got %s want %s", first, want)
	}

	second, err := c.Encode(ctx, "42", doc, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("cached bytes differ: %s vs %s", first, second)
	}
	if n := cc.calls(); n != 1 {
		t.Fatalf("codec ran %d times, want 1", n)
	}
	if !mp.has("doc:attrs:42") {
		t.Fatalf("entry not stored under doc:attrs:42")
	}
	if mp.lastTTL != defaultTTL {
		t.Fatalf("ttl %v, want default %v", mp.lastTTL, defaultTTL)
	}
	if mp.lastCst <= 0 {
		t.Fatalf("default cost should be the frame size, got %d", mp.lastCst)
	}
}

func TestGetReturnsCallerOwnedCopy(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemProvider(), nil)

	if err := c.Set(ctx, "k", []int{1, 2}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get ok=%v err=%v", ok, err)
	}
	b[0] = 'X'

	again, _, _ := c.Get(ctx, "k")
	if string(again) != "[1,2]" {
		t.Fatalf("cached entry mutated: %s", again)
	}
}

func TestEncodeErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	c := newTestCache(t, mp, nil)

	_, err := c.Encode(ctx, "bad", make(chan int), 0)
	if !errors.Is(err, strictjson.ErrUnencodable) {
		t.Fatalf("expected ErrUnencodable, got %v", err)
	}
	if mp.has("doc:attrs:bad") {
		t.Fatalf("failed encode left an entry")
	}
}

// Corrupt bytes are deleted and reported as a miss.
func TestSelfHealOnCorrupt(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	log := &recLogger{}
	c := newTestCache(t, mp, func(o *Options) { o.Logger = log })

	k := c.key("bad")
	if ok, err := mp.Set(ctx, k, []byte("not-wire-format"), 1, time.Minute); err != nil || !ok {
		t.Fatalf("inject corrupt: ok=%v err=%v", ok, err)
	}

	if _, ok, err := c.Get(ctx, "bad"); err != nil || ok {
		t.Fatalf("Get on corrupt should miss, ok=%v err=%v", ok, err)
	}
	if mp.has(k) {
		t.Fatalf("corrupt entry was not deleted by self-heal")
	}
	e, ok := log.find("warn", "doccache.self_heal")
	if !ok || e.f["reason"] != "corrupt frame" {
		t.Fatalf("missing self-heal warning: %+v", log.entries)
	}
}

// A frame written by another codec is stale for this cache.
func TestSelfHealOnCodecMismatch(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	log := &recLogger{}
	c := newTestCache(t, mp, func(o *Options) { o.Logger = log })

	k := c.key("u")
	if ok, err := mp.Set(ctx, k, wire.Encode("msgpack", []byte{0x80}), 1, time.Minute); err != nil || !ok {
		t.Fatalf("inject foreign codec: ok=%v err=%v", ok, err)
	}

	if _, ok, err := c.Get(ctx, "u"); err != nil || ok {
		t.Fatalf("Get on foreign codec should miss, ok=%v err=%v", ok, err)
	}
	if mp.has(k) {
		t.Fatalf("stale entry was not deleted")
	}
	if e, ok := log.find("warn", "doccache.self_heal"); !ok || e.f["reason"] != "codec mismatch" {
		t.Fatalf("missing codec mismatch warning: %+v", log.entries)
	}

	b, err := c.Encode(ctx, "u", map[string]any{"id": 1}, 0)
	if err != nil || string(b) != `{"id":1}` {
		t.Fatalf("re-encode after heal: %s %v", b, err)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := &countingCodec{Codec: codec.JSON{}}
	c := newTestCache(t, mp, func(o *Options) { o.Codec = cc })

	if _, err := c.Encode(ctx, "k", 1, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Invalidate")
	}
	if _, err := c.Encode(ctx, "k", 1, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n := cc.calls(); n != 2 {
		t.Fatalf("codec ran %d times, want 2", n)
	}
}

func TestDisabledIsPassThrough(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := &countingCodec{Codec: codec.JSON{}}
	c := newTestCache(t, mp, func(o *Options) { o.Codec = cc; o.Disabled = true })

	if c.Enabled() {
		t.Fatalf("Enabled() should be false")
	}
	for i := 0; i < 2; i++ {
		if b, err := c.Encode(ctx, "k", true, 0); err != nil || string(b) != "true" {
			t.Fatalf("Encode: %s %v", b, err)
		}
	}
	if n := cc.calls(); n != 2 {
		t.Fatalf("codec ran %d times, want 2", n)
	}
	if err := c.Set(ctx, "k", 1, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(mp.m) != 0 {
		t.Fatalf("disabled cache wrote to provider")
	}
}

func TestTTLAndCost(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	c := newTestCache(t, mp, func(o *Options) {
		o.DefaultTTL = time.Hour
		o.ComputeSetCost = func(string, []byte) int64 { return 7 }
	})

	_ = c.Set(ctx, "a", 1, 0)
	if mp.lastTTL != time.Hour || mp.lastCst != 7 {
		t.Fatalf("ttl=%v cost=%d", mp.lastTTL, mp.lastCst)
	}
	_ = c.Set(ctx, "a", 1, time.Second)
	if mp.lastTTL != time.Second {
		t.Fatalf("explicit ttl not honored: %v", mp.lastTTL)
	}
	_ = c.Set(ctx, "a", 1, -1)
	if mp.lastTTL != 0 {
		t.Fatalf("negative ttl should mean no expiry, got %v", mp.lastTTL)
	}
}

func TestProviderRejectionIsLogged(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	mp.reject = true
	log := &recLogger{}
	c := newTestCache(t, mp, func(o *Options) { o.Logger = log })

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("rejection is not an error: %v", err)
	}
	if _, ok := log.find("info", "doccache.set_rejected"); !ok {
		t.Fatalf("missing set_rejected log: %+v", log.entries)
	}
}

func TestProviderErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	mp := newMemProvider()
	mp.getErr = boom
	c := newTestCache(t, mp, nil)
	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("Get should surface provider error, got %v", err)
	}
	if _, err := c.Encode(ctx, "k", 1, 0); !errors.Is(err, boom) {
		t.Fatalf("Encode should surface read error, got %v", err)
	}

	mp = newMemProvider()
	mp.setErr = boom
	log := &recLogger{}
	c = newTestCache(t, mp, func(o *Options) { o.Logger = log })
	if err := c.Set(ctx, "k", 1, 0); !errors.Is(err, boom) {
		t.Fatalf("Set should surface provider error, got %v", err)
	}
	b, err := c.Encode(ctx, "k", 1, 0)
	if err != nil || string(b) != "1" {
		t.Fatalf("Encode should still return bytes on store failure: %s %v", b, err)
	}
	if _, ok := log.find("warn", "doccache.store_failed"); !ok {
		t.Fatalf("missing store_failed log: %+v", log.entries)
	}
}

func TestConcurrentEncode(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemProvider(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b, err := c.Encode(ctx, "shared", []float64{1.5, math.Inf(1)}, 0)
				if err != nil || string(b) != "[1.5,null]" {
					t.Errorf("Encode: %s %v", b, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
