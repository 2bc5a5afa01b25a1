package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/strictjson"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ConverterEvery    uint64
	SpecialFloatEvery uint64
	// Optional redactor for rejected timestamps. Defaults to the input as is.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	converterCtr atomic.Uint64
	specialCtr   atomic.Uint64
}

var _ strictjson.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(s string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(s)
	}
	return s
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) ConverterApplied(converter, goType string) {
	if h.l == nil || !sample(h.opts.ConverterEvery, &h.converterCtr) {
		return
	}
	h.l.Debug("strictjson.converter_applied",
		"converter", converter,
		"type", goType)
}

func (h *Hooks) SpecialFloat(kind string) {
	if h.l == nil || !sample(h.opts.SpecialFloatEvery, &h.specialCtr) {
		return
	}
	h.l.Debug("strictjson.special_float",
		"kind", kind)
}

func (h *Hooks) Unencodable(goType string) {
	if h.l == nil {
		return
	}
	h.l.Warn("strictjson.unencodable",
		"type", goType)
}

func (h *Hooks) TimezoneRejected(input string) {
	if h.l == nil {
		return
	}
	h.l.Warn("strictjson.timezone_rejected",
		"input", h.redact(input))
}
