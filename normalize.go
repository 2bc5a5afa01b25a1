package strictjson

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// readTree rebuilds the native tree from encoded output. Members keep their
// written order; numbers become int64, uint64 or float64, and stay
// json.Number when none of those holds them exactly.
func readTree(it *jsoniter.Iterator) any {
	switch it.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := Object{}
		it.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			obj = append(obj, Member{Key: key, Value: readTree(it)})
			return it.Error == nil
		})
		return obj
	case jsoniter.ArrayValue:
		arr := []any{}
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr = append(arr, readTree(it))
			return it.Error == nil
		})
		return arr
	case jsoniter.NumberValue:
		return treeNumber(it.ReadNumber())
	case jsoniter.StringValue:
		return it.ReadString()
	case jsoniter.BoolValue:
		return it.ReadBool()
	case jsoniter.NilValue:
		it.ReadNil()
		return nil
	}
	it.ReportError("readTree", "unexpected token")
	return nil
}

func treeNumber(n json.Number) any {
	s := string(n)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if strings.ContainsAny(s, ".eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return n
}

func (e *Encoder) parseTree(b []byte) (any, error) {
	it := e.api.BorrowIterator(b)
	defer e.api.ReturnIterator(it)

	tree := readTree(it)
	if it.Error != nil && it.Error != io.EOF {
		return nil, fmt.Errorf("strictjson: reread output: %w", it.Error)
	}
	return tree, nil
}
