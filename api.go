package strictjson

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Options tune an Encoder. The zero value gives the default behavior:
// special floats become null, all compiled-in converters are active, no
// indentation.
type Options struct {
	// DisallowSpecialFloats makes NaN and ±Inf an error instead of null.
	DisallowSpecialFloats bool
	// EscapeHTML escapes <, > and & inside strings and member names.
	EscapeHTML bool
	// EnsureASCII escapes every non-ASCII rune as \uXXXX.
	EnsureASCII bool
	// Indent is the number of spaces per nesting level; 0 => compact.
	Indent int
	// MaxDepth bounds container nesting plus converter re-entry; 0 => 1000.
	MaxDepth int
	// Disable removes optional converter families from the default chain.
	// Ignored when Chain is set.
	Disable Feature
	// Chain replaces the default converter chain.
	Chain *Chain

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

// Encoder writes arbitrary Go values as strict JSON. It is immutable after
// New and safe for concurrent use.
type Encoder struct {
	chain        Chain
	strictFloats bool
	escapeHTML   bool
	ensureASCII  bool
	indent       int
	maxDepth     int
	api          jsoniter.API
	log          Logger
	hooks        Hooks
}

func New(opts Options) (*Encoder, error) {
	if opts.Indent < 0 {
		return nil, fmt.Errorf("strictjson: negative indent %d", opts.Indent)
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("strictjson: negative max depth %d", opts.MaxDepth)
	}

	e := &Encoder{
		strictFloats: opts.DisallowSpecialFloats,
		escapeHTML:   opts.EscapeHTML,
		ensureASCII:  opts.EnsureASCII,
		indent:       opts.Indent,
		maxDepth:     coalesce(opts.MaxDepth, defaultMaxDepth),
		log:          coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:        coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	if opts.Chain != nil {
		e.chain = NewChain(opts.Chain.convs...)
	} else {
		e.chain = NewChain(defaultConverters(compiledFeatures &^ opts.Disable)...)
	}
	// Strings are escaped by our own encoders, so the config leaves
	// EscapeHTML off and never installs its own string encoder.
	e.api = jsoniter.Config{IndentionStep: opts.Indent}.Froze()
	e.api.RegisterExtension(&extension{e: e})

	e.log.Debug("strictjson.encoder", Fields{
		"converters":   e.chain.Names(),
		"strictFloats": e.strictFloats,
		"maxDepth":     e.maxDepth,
	})
	return e, nil
}

// MustNew is like New but panics on error.
// Handy for package-level variables.
func MustNew(opts Options) *Encoder {
	e, err := New(opts)
	if err != nil {
		panic(err)
	}
	return e
}

var std = MustNew(Options{})

// Marshal encodes v with the default Encoder.
func Marshal(v any) ([]byte, error) { return std.Marshal(v) }

// Normalize reduces v with the default Encoder. See Encoder.Normalize.
func Normalize(v any) (any, error) { return std.Normalize(v) }

// Marshal returns the strict JSON encoding of v. On error no partial
// output is returned.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	s := e.api.BorrowStream(nil)
	if err := e.encode(s, v); err != nil {
		// a failed stream may still be indented; let it go
		return nil, err
	}
	buf := s.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	e.api.ReturnStream(s)
	return out, nil
}

// MarshalTo encodes v straight into a stream over w and flushes it once
// encoding has succeeded. Nothing is written when encoding fails.
func (e *Encoder) MarshalTo(w io.Writer, v any) error {
	if w == nil {
		return errors.New("strictjson: nil writer")
	}
	s := jsoniter.NewStream(e.api, w, streamBufferSize)
	if err := e.encode(s, v); err != nil {
		return err
	}
	return s.Flush()
}

func (e *Encoder) encode(s *jsoniter.Stream, v any) error {
	st := &state{}
	s.Attachment = st
	s.WriteVal(v)
	if st.err != nil {
		return st.err
	}
	return s.Error
}

// Normalize reduces v to the native tree Marshal writes: nil, bool,
// string, int64, uint64, float64, json.Number, []any and Object. The tree
// holds no special floats and can be handed to other codecs.
func (e *Encoder) Normalize(v any) (any, error) {
	b, err := e.Marshal(v)
	if err != nil {
		return nil, err
	}
	return e.parseTree(b)
}
