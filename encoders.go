package strictjson

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// valueEncoder wraps whatever json-iterator built for a type. Foreign
// values are offered to the converter chain, then to their marshalers;
// containers are counted against MaxDepth.
type valueEncoder struct {
	e         *Encoder
	typ       reflect.Type
	inner     jsoniter.ValEncoder
	foreign   bool
	container bool

	// MarshalJSON/MarshalText declared on *T only
	ptrMarshaler bool
	ptrText      bool
}

func (ve *valueEncoder) IsEmpty(ptr unsafe.Pointer) bool { return ve.inner.IsEmpty(ptr) }

func (ve *valueEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	st := stateOf(s)
	if st.err != nil {
		return
	}
	if ve.foreign && ve.encodeForeign(st, ptr, s) {
		return
	}
	if ve.container {
		if st.depth >= ve.e.maxDepth {
			st.fail(s, ErrMaxDepth)
			return
		}
		st.depth++
		defer func() { st.depth-- }()
	}
	ve.inner.Encode(ptr, s)
}

// encodeForeign reports whether the value was written (or failed) without
// needing the structural encoder.
func (ve *valueEncoder) encodeForeign(st *state, ptr unsafe.Pointer, s *jsoniter.Stream) bool {
	v := reflect.NewAt(ve.typ, ptr).Elem()
	if v.Kind() == reflect.Pointer && v.IsNil() {
		s.WriteNil()
		return true
	}
	x := v.Interface()

	out, name, ok, err := ve.e.chain.Convert(x)
	if err != nil {
		var tz *TimezoneError
		if errors.As(err, &tz) {
			ve.e.hooks.TimezoneRejected(tz.Input)
		}
		st.fail(s, err)
		return true
	}
	if ok {
		ve.e.hooks.ConverterApplied(name, ve.typ.String())
		if st.depth >= ve.e.maxDepth {
			st.fail(s, ErrMaxDepth)
			return true
		}
		st.depth++
		s.WriteVal(out)
		st.depth--
		return true
	}

	if ve.ptrMarshaler || ve.ptrText {
		x = v.Addr().Interface()
	}
	switch m := x.(type) {
	case json.Marshaler:
		raw, err := m.MarshalJSON()
		if err != nil {
			st.fail(s, fmt.Errorf("strictjson: %s.MarshalJSON: %w", ve.typ, err))
			return true
		}
		b, err := ve.e.embedRaw(raw, ve.typ.String())
		if err != nil {
			st.fail(s, err)
			return true
		}
		s.WriteRaw(string(b))
		return true
	case encoding.TextMarshaler:
		text, err := m.MarshalText()
		if err != nil {
			st.fail(s, fmt.Errorf("strictjson: %s.MarshalText: %w", ve.typ, err))
			return true
		}
		ve.e.writeString(s, string(text))
		return true
	}
	return false
}

// fieldEncoder keeps the error path in step with json-iterator's struct
// encoder.
type fieldEncoder struct {
	seg   string
	inner jsoniter.ValEncoder
}

func (fe *fieldEncoder) IsEmpty(ptr unsafe.Pointer) bool { return fe.inner.IsEmpty(ptr) }

func (fe *fieldEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	st := stateOf(s)
	st.push(fe.seg)
	fe.inner.Encode(ptr, s)
	st.pop()
}

type floatEncoder struct {
	e    *Encoder
	bits int
}

func (fe *floatEncoder) load(ptr unsafe.Pointer) float64 {
	if fe.bits == 32 {
		return float64(*(*float32)(ptr))
	}
	return *(*float64)(ptr)
}

func (fe *floatEncoder) IsEmpty(ptr unsafe.Pointer) bool { return fe.load(ptr) == 0 }

func (fe *floatEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	f := fe.load(ptr)
	if kind := specialKind(f); kind != "" {
		fe.e.writeSpecial(s, f, kind)
		return
	}
	if fe.bits == 32 {
		s.WriteFloat32(*(*float32)(ptr))
		return
	}
	s.WriteFloat64(f)
}

type stringEncoder struct{ e *Encoder }

func (se *stringEncoder) IsEmpty(ptr unsafe.Pointer) bool { return len(*(*string)(ptr)) == 0 }

func (se *stringEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	se.e.writeString(s, *(*string)(ptr))
}

// numberEncoder writes a json.Number literal after checking it really is
// one. The empty Number is 0, as in encoding/json.
type numberEncoder struct{}

func (numberEncoder) IsEmpty(ptr unsafe.Pointer) bool { return len(*(*json.Number)(ptr)) == 0 }

func (numberEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	n := string(*(*json.Number)(ptr))
	if n == "" {
		s.WriteRaw("0")
		return
	}
	if !validNumber(n) {
		stateOf(s).fail(s, fmt.Errorf("strictjson: invalid number literal %q", n))
		return
	}
	s.WriteRaw(n)
}

type rawEncoder struct{ e *Encoder }

func (re *rawEncoder) IsEmpty(ptr unsafe.Pointer) bool { return len(*(*json.RawMessage)(ptr)) == 0 }

func (re *rawEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	raw := *(*json.RawMessage)(ptr)
	if raw == nil {
		s.WriteNil()
		return
	}
	b, err := re.e.embedRaw(raw, "json.RawMessage")
	if err != nil {
		stateOf(s).fail(s, err)
		return
	}
	s.WriteRaw(string(b))
}

type objectEncoder struct{ e *Encoder }

func (oe *objectEncoder) IsEmpty(ptr unsafe.Pointer) bool { return len(*(*Object)(ptr)) == 0 }

func (oe *objectEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	obj := *(*Object)(ptr)
	if obj == nil {
		s.WriteNil()
		return
	}
	if len(obj) == 0 {
		s.WriteEmptyObject()
		return
	}
	st := stateOf(s)
	s.WriteObjectStart()
	for i, m := range obj {
		if i > 0 {
			s.WriteMore()
		}
		oe.e.writeKey(s, m.Key)
		st.push(keySeg(m.Key))
		s.WriteVal(m.Value)
		st.pop()
		if st.err != nil {
			return
		}
	}
	s.WriteObjectEnd()
}

// seqEncoder writes slices and arrays element by element so failures carry
// their index.
type seqEncoder struct{ typ reflect.Type }

func (se *seqEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.NewAt(se.typ, ptr).Elem().Len() == 0
}

func (se *seqEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	v := reflect.NewAt(se.typ, ptr).Elem()
	if v.Kind() == reflect.Slice && v.IsNil() {
		s.WriteNil()
		return
	}
	n := v.Len()
	if n == 0 {
		s.WriteEmptyArray()
		return
	}
	st := stateOf(s)
	s.WriteArrayStart()
	for i := 0; i < n; i++ {
		if i > 0 {
			s.WriteMore()
		}
		st.push(indexSeg(i))
		s.WriteVal(v.Index(i).Interface())
		st.pop()
		if st.err != nil {
			return
		}
	}
	s.WriteArrayEnd()
}

type member struct {
	key string
	val reflect.Value
}

// mapEncoder writes maps with sorted keys. Keys are strings, TextMarshalers
// or integers, as in encoding/json; two keys that render the same are an
// error rather than a duplicate member.
type mapEncoder struct {
	e   *Encoder
	typ reflect.Type
}

func (me *mapEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.NewAt(me.typ, ptr).Elem().Len() == 0
}

func (me *mapEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	m := reflect.NewAt(me.typ, ptr).Elem()
	if m.IsNil() {
		s.WriteNil()
		return
	}
	st := stateOf(s)
	members := make([]member, 0, m.Len())
	iter := m.MapRange()
	for iter.Next() {
		k, err := mapKey(iter.Key())
		if err != nil {
			var ue *UnencodableError
			if errors.As(err, &ue) {
				me.e.hooks.Unencodable(ue.Type)
			}
			st.fail(s, err)
			return
		}
		members = append(members, member{key: k, val: iter.Value()})
	}
	if len(members) == 0 {
		s.WriteEmptyObject()
		return
	}
	sort.Slice(members, func(i, j int) bool { return members[i].key < members[j].key })
	for i := 1; i < len(members); i++ {
		if members[i].key == members[i-1].key {
			me.e.hooks.Unencodable(me.typ.String())
			st.fail(s, &DuplicateKeyError{Key: members[i].key})
			return
		}
	}

	s.WriteObjectStart()
	for i, mem := range members {
		if i > 0 {
			s.WriteMore()
		}
		me.e.writeKey(s, mem.key)
		st.push(keySeg(mem.key))
		s.WriteVal(mem.val.Interface())
		st.pop()
		if st.err != nil {
			return
		}
	}
	s.WriteObjectEnd()
}

// mapKey renders a map key. The result is valid UTF-8 so that keys which
// only differ in invalid bytes are caught as duplicates.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return strings.ToValidUTF8(k.String(), replacementChar), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", nil
		}
		b, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("strictjson: map key %s.MarshalText: %w", k.Type(), err)
		}
		return strings.ToValidUTF8(string(b), replacementChar), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("map key: %w", &UnencodableError{Type: k.Type().String()})
}

type unencodableEncoder struct {
	e   *Encoder
	typ string
}

func (unencodableEncoder) IsEmpty(unsafe.Pointer) bool { return false }

func (ue *unencodableEncoder) Encode(_ unsafe.Pointer, s *jsoniter.Stream) {
	st := stateOf(s)
	if st.err != nil {
		return
	}
	ue.e.hooks.Unencodable(ue.typ)
	st.fail(s, &UnencodableError{Type: ue.typ})
}
