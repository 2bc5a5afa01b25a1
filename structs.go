package strictjson

import (
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

type structField struct {
	name      string
	index     []int
	tagged    bool
	omitEmpty bool
}

// resolveStruct reports whether json-iterator's own struct descriptor can
// encode t. It cannot when embedding revisits a type (its descriptor
// recurses without bound on a self-embedding struct), when promoted names
// clash (it settles those differently from encoding/json), or when a name
// needs escaping under the encoder's options (it writes names verbatim).
// In those cases the fields encoding/json would write are returned.
func (e *Encoder) resolveStruct(t reflect.Type) ([]structField, bool) {
	fields, revisit := typeFields(t)
	if revisit {
		return dominantFields(fields), false
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.name] || !e.plainName(f.name) {
			return dominantFields(fields), false
		}
		seen[f.name] = true
	}
	return nil, true
}

// typeFields walks t breadth first the way encoding/json does: each
// embedded struct type is expanded once, and a type embedded twice at the
// same depth contributes its fields twice so that they cancel out.
func typeFields(t reflect.Type) (fields []structField, revisit bool) {
	type embedded struct {
		typ   reflect.Type
		index []int
	}
	var current []embedded
	next := []embedded{{typ: t}}
	var count, nextCount map[reflect.Type]int
	visited := map[reflect.Type]bool{}

	for len(next) > 0 {
		current, next = next, current[:0]
		count, nextCount = nextCount, map[reflect.Type]int{}

		for _, c := range current {
			if visited[c.typ] {
				revisit = true
				continue
			}
			visited[c.typ] = true

			for i := 0; i < c.typ.NumField(); i++ {
				sf := c.typ.Field(i)
				if sf.Anonymous {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}
					if !sf.IsExported() && ft.Kind() != reflect.Struct {
						continue
					}
				} else if !sf.IsExported() {
					continue
				}
				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				index := make([]int, len(c.index)+1)
				copy(index, c.index)
				index[len(c.index)] = i

				ft := sf.Type
				if ft.Name() == "" && ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if name != "" || !sf.Anonymous || ft.Kind() != reflect.Struct {
					if !sf.IsExported() {
						continue
					}
					f := structField{
						name:      name,
						index:     index,
						tagged:    name != "",
						omitEmpty: hasOption(opts, "omitempty"),
					}
					if f.name == "" {
						f.name = sf.Name
					}
					fields = append(fields, f)
					if count[c.typ] > 1 {
						fields = append(fields, f)
					}
					continue
				}
				nextCount[ft]++
				if nextCount[ft] == 1 {
					next = append(next, embedded{typ: ft, index: index})
				} else {
					revisit = true
				}
			}
		}
	}
	return fields, revisit
}

// dominantFields applies encoding/json's precedence: for each name the
// shallowest field wins, a tag breaks a tie, and an unbroken tie drops the
// name entirely. Output follows declaration order.
func dominantFields(fields []structField) []structField {
	sorted := append([]structField(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		x, y := sorted[i], sorted[j]
		if x.name != y.name {
			return x.name < y.name
		}
		if len(x.index) != len(y.index) {
			return len(x.index) < len(y.index)
		}
		return x.tagged && !y.tagged
	})

	out := sorted[:0]
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].name == sorted[i].name {
			j++
		}
		group := sorted[i:j]
		if len(group) == 1 || len(group[0].index) < len(group[1].index) || group[0].tagged != group[1].tagged {
			out = append(out, group[0])
		}
		i = j
	}
	sort.Slice(out, func(i, j int) bool { return indexLess(out[i].index, out[j].index) })
	return out
}

func indexLess(a, b []int) bool {
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return len(a) < len(b)
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

// plainName reports whether name can be written by json-iterator unchanged.
func (e *Encoder) plainName(name string) bool {
	if !utf8.ValidString(name) {
		return false
	}
	if e.escapeHTML && strings.ContainsAny(name, "<>&") {
		return false
	}
	if e.ensureASCII {
		for i := 0; i < len(name); i++ {
			if name[i] >= utf8.RuneSelf {
				return false
			}
		}
	}
	return true
}

// structEncoder writes a struct from a resolved field list.
type structEncoder struct {
	e      *Encoder
	typ    reflect.Type
	fields []structField
}

func (se *structEncoder) IsEmpty(unsafe.Pointer) bool { return false }

func (se *structEncoder) Encode(ptr unsafe.Pointer, s *jsoniter.Stream) {
	v := reflect.NewAt(se.typ, ptr).Elem()
	type present struct {
		name string
		val  reflect.Value
	}
	out := make([]present, 0, len(se.fields))
	for _, f := range se.fields {
		fv, err := v.FieldByIndexErr(f.index)
		if err != nil {
			// behind a nil embedded pointer
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		out = append(out, present{name: f.name, val: fv})
	}
	if len(out) == 0 {
		s.WriteEmptyObject()
		return
	}

	st := stateOf(s)
	s.WriteObjectStart()
	for i, f := range out {
		if i > 0 {
			s.WriteMore()
		}
		se.e.writeKey(s, f.name)
		st.push(keySeg(f.name))
		s.WriteVal(f.val.Interface())
		st.pop()
		if st.err != nil {
			return
		}
	}
	s.WriteObjectEnd()
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
