package strictjson

// Hooks are lightweight callbacks for high-signal encoder events.
// Implementations MUST be cheap and non-blocking: the encoder calls them
// from inside Marshal.
type Hooks interface {
	// A converter from the chain accepted a value.
	ConverterApplied(converter, goType string)

	// Neither the chain nor the structural fallback could represent a value.
	Unencodable(goType string)

	// A timestamp carried a non-UTC offset.
	TimezoneRejected(input string)

	// A special float was met. kind ∈ {"NaN", "+Inf", "-Inf"}
	SpecialFloat(kind string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) ConverterApplied(string, string) {}
func (NopHooks) Unencodable(string)              {}
func (NopHooks) TimezoneRejected(string)         {}
func (NopHooks) SpecialFloat(string)             {}
