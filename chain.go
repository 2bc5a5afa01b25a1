package strictjson

import (
	"errors"
)

// Converter turns a foreign value into something the encoder can write.
// The result is normalized again, so it may be another foreign value or a
// special float. Convert returns ErrNotEncodable (optionally wrapped) when
// it does not apply; any other error aborts the whole Marshal call.
type Converter interface {
	Name() string
	Convert(v any) (any, error)
}

// ConverterFunc adapts a function to Converter.
func ConverterFunc(name string, fn func(v any) (any, error)) Converter {
	return funcConverter{name: name, fn: fn}
}

type funcConverter struct {
	name string
	fn   func(any) (any, error)
}

func (c funcConverter) Name() string               { return c.name }
func (c funcConverter) Convert(v any) (any, error) { return c.fn(v) }

// Chain is an ordered, immutable list of converters. The first converter
// that accepts a value decides its representation, even if later ones
// would also match.
type Chain struct {
	convs []Converter
}

// NewChain copies cs into a new Chain. Nil entries are skipped.
func NewChain(cs ...Converter) Chain {
	out := make([]Converter, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			out = append(out, c)
		}
	}
	return Chain{convs: out}
}

// Len returns the number of converters.
func (c Chain) Len() int { return len(c.convs) }

// Names lists converter names in priority order.
func (c Chain) Names() []string {
	names := make([]string, len(c.convs))
	for i, cv := range c.convs {
		names[i] = cv.Name()
	}
	return names
}

// Convert runs v through the chain. ok is false when every converter
// declined.
func (c Chain) Convert(v any) (out any, name string, ok bool, err error) {
	for _, cv := range c.convs {
		out, err = cv.Convert(v)
		if err == nil {
			return out, cv.Name(), true, nil
		}
		if errors.Is(err, ErrNotEncodable) {
			continue
		}
		return nil, cv.Name(), false, err
	}
	return nil, "", false, nil
}

// DefaultConverters returns the built-in converters in priority order,
// limited to the features compiled into the binary.
func DefaultConverters() []Converter {
	return defaultConverters(compiledFeatures)
}

// DefaultChain is NewChain(DefaultConverters()...).
func DefaultChain() Chain {
	return NewChain(DefaultConverters()...)
}

func defaultConverters(f Feature) []Converter {
	cs := []Converter{SelfDescribing()}
	if f.has(FeatureExactNumeric) {
		cs = append(cs, ExactNumeric())
	}
	if f.has(FeatureArray) {
		cs = append(cs, MaskedArray())
	}
	if f.has(FeatureTabular) {
		cs = append(cs, NotATime())
	}
	return append(cs, DateTime(), Date(), List())
}
