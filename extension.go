package strictjson

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

var (
	objectType        = reflect.TypeOf(Object(nil))
	numberType        = reflect.TypeOf(json.Number(""))
	rawMessageType    = reflect.TypeOf(json.RawMessage(nil))
	anySliceType      = reflect.TypeOf([]any(nil))
	anyMapType        = reflect.TypeOf(map[string]any(nil))
	marshalerType     = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// extension plugs an Encoder's rules into its frozen json-iterator config.
// Floats, strings, maps, sequences and the JSON special types get our own
// encoders; structs, pointers and interfaces stay with json-iterator and are
// decorated so the converter chain sees every foreign value first.
type extension struct {
	jsoniter.DummyExtension
	e *Encoder
}

func (x *extension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	t := typ.Type1()
	switch t {
	case numberType:
		return &numberEncoder{}
	case rawMessageType:
		return &rawEncoder{e: x.e}
	case objectType:
		return &objectEncoder{e: x.e}
	}

	switch t.Kind() {
	case reflect.Float32:
		return &floatEncoder{e: x.e, bits: 32}
	case reflect.Float64:
		return &floatEncoder{e: x.e, bits: 64}
	case reflect.String:
		return &stringEncoder{e: x.e}
	case reflect.Map:
		return &mapEncoder{e: x.e, typ: t}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil // base64, as encoding/json
		}
		return &seqEncoder{typ: t}
	case reflect.Array:
		return &seqEncoder{typ: t}
	case reflect.Struct:
		if fields, ok := x.e.resolveStruct(t); !ok {
			return &structEncoder{e: x.e, typ: t, fields: fields}
		}
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return &unencodableEncoder{e: x.e, typ: t.String()}
	}
	return nil
}

func (x *extension) DecorateEncoder(typ reflect2.Type, inner jsoniter.ValEncoder) jsoniter.ValEncoder {
	t := typ.Type1()
	foreign := isForeign(t)
	container := isContainer(t)
	if !foreign && !container {
		return inner
	}
	ve := &valueEncoder{
		e:         x.e,
		typ:       t,
		inner:     inner,
		foreign:   foreign,
		container: container,
	}
	if foreign && t.Kind() != reflect.Pointer {
		ptr := reflect.PointerTo(t)
		ve.ptrMarshaler = !t.Implements(marshalerType) && ptr.Implements(marshalerType)
		ve.ptrText = !t.Implements(textMarshalerType) && ptr.Implements(textMarshalerType)
	}
	return ve
}

// UpdateStructDescriptor tags every field encoder json-iterator builds with
// the field's output name, so failures report where they happened.
func (x *extension) UpdateStructDescriptor(d *jsoniter.StructDescriptor) {
	for _, b := range d.Fields {
		if len(b.ToNames) == 0 {
			continue
		}
		b.Encoder = &fieldEncoder{seg: keySeg(b.ToNames[0]), inner: b.Encoder}
	}
}

// isForeign reports whether values of t go through the converter chain.
// Predeclared scalars and the encoder's own tree types do not.
func isForeign(t reflect.Type) bool {
	switch t {
	case objectType, numberType, rawMessageType, anySliceType, anyMapType:
		return false
	}
	if t.Kind() == reflect.Interface {
		return false
	}
	return t.PkgPath() != "" || t.Name() == ""
}

// isContainer reports whether t counts against MaxDepth.
func isContainer(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Array, reflect.Map:
		return true
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	}
	return false
}

// state is the per-call bookkeeping carried in Stream.Attachment.
// json-iterator flattens stream errors into strings, so the first typed
// error is kept here.
type state struct {
	depth int
	path  []string
	err   error
}

func stateOf(s *jsoniter.Stream) *state {
	if st, ok := s.Attachment.(*state); ok {
		return st
	}
	st := &state{}
	s.Attachment = st
	return st
}

func (st *state) push(seg string) { st.path = append(st.path, seg) }
func (st *state) pop()            { st.path = st.path[:len(st.path)-1] }

// fail records err at the current path. Only the first failure counts.
func (st *state) fail(s *jsoniter.Stream, err error) {
	if st.err != nil {
		return
	}
	if len(st.path) > 0 {
		err = &pathError{Path: strings.Join(st.path, ""), Err: err}
	}
	st.err = err
	s.Error = err
}

func indexSeg(i int) string  { return "[" + strconv.Itoa(i) + "]" }
func keySeg(k string) string { return "[" + strconv.Quote(k) + "]" }
