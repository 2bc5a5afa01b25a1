// Package strictjson encodes arbitrary Go values as strict JSON: no NaN or
// Infinity tokens, ever. Special floats (NaN, +Inf, -Inf) become null
// wherever they appear, including values produced by converters.
//
// Values that are not built-in JSON shapes go through an ordered chain of
// converters. The first converter that accepts a value decides its
// representation:
//
//	self      JSONValuer: the value's own JSONValue() result
//	exact     big.Int, big.Float, big.Rat (or pointers)  (FeatureExactNumeric)
//	masked    the Masked array sentinel -> null          (FeatureArray)
//	nat       NaT and invalid sql.Null* wrappers -> null (FeatureTabular)
//	datetime  Instant (time.Time): UTC, "2006-01-02 15:04:05", midnight -> date
//	date      ISOFormatter: same normalization, no zone conversion
//	list      Lister: ToList() result
//
// When the chain declines, json.Marshaler, encoding.TextMarshaler and the
// structural encoders (structs with json tags, maps, slices) are tried in
// that order. Encoding runs on a json-iterator config extended with these
// rules. Anything else fails with *UnencodableError. A failure never
// produces partial output.
//
// Optional families are compiled in by default; build with
// -tags strictjson_minimal to leave them out, or drop them per encoder
// with Options.Disable.
//
// Usage:
//
//	b, err := strictjson.Marshal(strictjson.Object{
//	    {Key: "a", Value: math.NaN()},
//	    {Key: "b", Value: []any{"x", math.Inf(1)}},
//	}) // {"a":null,"b":["x",null]}
package strictjson
