package strictjson

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNotEncodable is returned by a Converter that does not apply to a
	// value. The chain moves on to the next converter; it never reaches
	// the caller.
	ErrNotEncodable = errors.New("strictjson: not encodable by converter")

	ErrUnencodable      = errors.New("strictjson: unencodable value")
	ErrTimezoneRejected = errors.New("strictjson: timezone not permitted")
	ErrMaxDepth         = errors.New("strictjson: maximum depth exceeded")
)

// UnencodableError reports a value that no converter and no structural
// fallback could represent.
type UnencodableError struct {
	Type string
}

func (e *UnencodableError) Error() string {
	return fmt.Sprintf("strictjson: unencodable value of type %s", e.Type)
}

func (e *UnencodableError) Is(target error) bool { return target == ErrUnencodable }

// TimezoneError reports a timestamp with an offset other than UTC.
// Callers are expected to convert to UTC before formatting.
type TimezoneError struct {
	Input  string
	Offset string
}

func (e *TimezoneError) Error() string {
	return fmt.Sprintf("strictjson: timezone not permitted in %q (offset %s); timestamps must be UTC", e.Input, e.Offset)
}

func (e *TimezoneError) Is(target error) bool { return target == ErrTimezoneRejected }

// UnsupportedFloatError is returned for NaN and ±Inf when special floats
// are disallowed.
type UnsupportedFloatError struct {
	Value float64
}

func (e *UnsupportedFloatError) Error() string {
	return "strictjson: out of range float values are not JSON compliant: " +
		strconv.FormatFloat(e.Value, 'g', -1, 64)
}

// pathError attaches the location of a failing value within the input.
type pathError struct {
	Path string
	Err  error
}

func (e *pathError) Error() string { return "$" + e.Path + ": " + e.Err.Error() }
func (e *pathError) Unwrap() error { return e.Err }

// DuplicateKeyError reports two map keys that render to the same member
// name, for instance through MarshalText or invalid UTF-8 replacement.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("strictjson: duplicate object key %q", e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrUnencodable }
