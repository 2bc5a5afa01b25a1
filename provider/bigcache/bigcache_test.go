package bigcache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestRequiresLifeWindow(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoLifeWindow) {
		t.Fatalf("expected ErrNoLifeWindow, got %v", err)
	}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{LifeWindow: time.Minute, Shards: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	if _, hit, err := p.Get(ctx, "doc:t:1"); hit || err != nil {
		t.Fatalf("expected clean miss, hit=%v err=%v", hit, err)
	}

	val := []byte(`["x",1]`)
	if ok, err := p.Set(ctx, "doc:t:1", val, 0, 0); !ok || err != nil {
		t.Fatalf("Set ok=%v err=%v", ok, err)
	}
	got, hit, err := p.Get(ctx, "doc:t:1")
	if err != nil || !hit || !bytes.Equal(got, val) {
		t.Fatalf("Get got=%q hit=%v err=%v", got, hit, err)
	}

	if err := p.Del(ctx, "doc:t:1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, "doc:t:1"); err != nil {
		t.Fatalf("Del of missing key: %v", err)
	}
}
