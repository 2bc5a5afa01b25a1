package strictjson

import (
	"database/sql"
	"encoding/json"
	"math"
	"math/big"
	"time"
)

// JSONValuer is implemented by values that know their own JSON-ready
// representation. It takes precedence over every other converter.
type JSONValuer interface {
	JSONValue() any
}

// Instant is implemented by date-time values that can be moved to another
// time zone. time.Time satisfies it.
type Instant interface {
	In(loc *time.Location) time.Time
}

// ISOFormatter is implemented by calendar values that render themselves as
// ISO-8601 but carry no zone, such as a plain date.
type ISOFormatter interface {
	ISOFormat() string
}

// Lister is implemented by array-like values that can flatten themselves
// into a plain sequence.
type Lister interface {
	ToList() []any
}

// SelfDescribing uses JSONValuer.
func SelfDescribing() Converter {
	return ConverterFunc("self", func(v any) (any, error) {
		if d, ok := v.(JSONValuer); ok {
			return d.JSONValue(), nil
		}
		return nil, ErrNotEncodable
	})
}

// ExactNumeric maps math/big values, by pointer or by value, onto JSON
// numbers. Integers stay exact (json.Number when they overflow int64);
// big.Float and non-integral big.Rat become float64, so overflow lands on
// ±Inf and then null.
func ExactNumeric() Converter {
	return ConverterFunc("exact", func(v any) (any, error) {
		switch x := v.(type) {
		case *big.Int:
			if x == nil {
				return nil, nil
			}
			return bigInt(x), nil
		case big.Int:
			return bigInt(&x), nil
		case *big.Float:
			if x == nil {
				return nil, nil
			}
			return bigFloat(x), nil
		case big.Float:
			return bigFloat(&x), nil
		case *big.Rat:
			if x == nil {
				return nil, nil
			}
			return bigRat(x), nil
		case big.Rat:
			return bigRat(&x), nil
		}
		return nil, ErrNotEncodable
	})
}

func bigInt(x *big.Int) any {
	if x.IsInt64() {
		return x.Int64()
	}
	return json.Number(x.String())
}

func bigFloat(x *big.Float) any {
	f, _ := x.Float64()
	return f
}

func bigRat(x *big.Rat) any {
	if x.IsInt() {
		return bigInt(x.Num())
	}
	f, _ := x.Float64()
	return f
}

// MaskedArray maps the Masked sentinel to NaN.
func MaskedArray() Converter {
	return ConverterFunc("masked", func(v any) (any, error) {
		if _, ok := v.(masked); ok {
			return math.NaN(), nil
		}
		return nil, ErrNotEncodable
	})
}

// NotATime maps NaT and invalid database/sql null wrappers to null. Valid
// wrappers yield their inner value.
func NotATime() Converter {
	return ConverterFunc("nat", func(v any) (any, error) {
		switch x := v.(type) {
		case nat:
			return nil, nil
		case sql.NullTime:
			return nullable(x.Valid, x.Time), nil
		case sql.NullFloat64:
			return nullable(x.Valid, x.Float64), nil
		case sql.NullInt64:
			return nullable(x.Valid, x.Int64), nil
		case sql.NullInt32:
			return nullable(x.Valid, x.Int32), nil
		case sql.NullInt16:
			return nullable(x.Valid, x.Int16), nil
		case sql.NullByte:
			return nullable(x.Valid, x.Byte), nil
		case sql.NullBool:
			return nullable(x.Valid, x.Bool), nil
		case sql.NullString:
			return nullable(x.Valid, x.String), nil
		}
		return nil, ErrNotEncodable
	})
}

func nullable[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}

// DateTime converts an Instant to UTC and normalizes its ISO form.
func DateTime() Converter {
	return ConverterFunc("datetime", func(v any) (any, error) {
		t, ok := v.(Instant)
		if !ok {
			return nil, ErrNotEncodable
		}
		return NormalizeTimestamp(isoFormat(t.In(time.UTC)))
	})
}

// Date normalizes the ISO form of an ISOFormatter without zone conversion.
func Date() Converter {
	return ConverterFunc("date", func(v any) (any, error) {
		d, ok := v.(ISOFormatter)
		if !ok {
			return nil, ErrNotEncodable
		}
		return NormalizeTimestamp(d.ISOFormat())
	})
}

// List uses Lister. It runs last since many array types expose it next to
// a more specific representation.
func List() Converter {
	return ConverterFunc("list", func(v any) (any, error) {
		if l, ok := v.(Lister); ok {
			return l.ToList(), nil
		}
		return nil, ErrNotEncodable
	})
}
