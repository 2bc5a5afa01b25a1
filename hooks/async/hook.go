// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ConverterEvery:    100, // sample ~every 100th converter hit
//	    SpecialFloatEvery: 1,   // log every special float
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	enc, _ := strictjson.New(strictjson.Options{Hooks: hooks})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/strictjson"
)

// Hooks forwards events to inner on background workers. Events are dropped
// when the queue is full, so Marshal never waits on a slow hook.
type Hooks struct {
	inner strictjson.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ strictjson.Hooks = (*Hooks)(nil)

func New(inner strictjson.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Events sent after Close
// panic, so close only once the encoder is no longer used.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) ConverterApplied(c, typ string) { h.try(func() { h.inner.ConverterApplied(c, typ) }) }
func (h *Hooks) Unencodable(typ string)         { h.try(func() { h.inner.Unencodable(typ) }) }
func (h *Hooks) TimezoneRejected(in string)     { h.try(func() { h.inner.TimezoneRejected(in) }) }
func (h *Hooks) SpecialFloat(kind string)       { h.try(func() { h.inner.SpecialFloat(kind) }) }
