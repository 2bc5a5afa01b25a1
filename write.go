package strictjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

const replacementChar = "\ufffd"

// writeString writes str as a JSON string. Invalid UTF-8 is replaced with
// U+FFFD, as encoding/json does.
func (e *Encoder) writeString(s *jsoniter.Stream, str string) {
	str = strings.ToValidUTF8(str, replacementChar)
	switch {
	case e.ensureASCII:
		s.SetBuffer(appendASCII(s.Buffer(), str, e.escapeHTML))
	case e.escapeHTML:
		s.WriteStringWithHTMLEscaped(str)
	default:
		s.WriteString(str)
	}
}

// writeKey writes an object member name and its separator.
func (e *Encoder) writeKey(s *jsoniter.Stream, key string) {
	e.writeString(s, key)
	if e.indent > 0 {
		s.WriteRaw(": ")
		return
	}
	s.WriteRaw(":")
}

const hexDigits = "0123456789abcdef"

// appendASCII quotes a valid UTF-8 string using only ASCII. Runes outside
// the BMP become surrogate pairs.
func appendASCII(dst []byte, str string, html bool) []byte {
	dst = append(dst, '"')
	for _, r := range str {
		switch {
		case r == '"' || r == '\\':
			dst = append(dst, '\\', byte(r))
		case r == '\n':
			dst = append(dst, '\\', 'n')
		case r == '\r':
			dst = append(dst, '\\', 'r')
		case r == '\t':
			dst = append(dst, '\\', 't')
		case r < 0x20, html && (r == '<' || r == '>' || r == '&'):
			dst = appendEscape(dst, r)
		case r < utf8.RuneSelf:
			dst = append(dst, byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			dst = appendEscape(appendEscape(dst, hi), lo)
		default:
			dst = appendEscape(dst, r)
		}
	}
	return append(dst, '"')
}

func appendEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}

// asciiOnly escapes every non-ASCII rune of compact JSON. Such runes can
// only sit inside string literals, where \u escapes mean the same thing.
func asciiOnly(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] < utf8.RuneSelf {
		i++
	}
	if i == len(b) {
		return b
	}
	out := append(make([]byte, 0, len(b)+16), b[:i]...)
	for _, r := range string(b[i:]) {
		switch {
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			out = appendEscape(appendEscape(out, hi), lo)
		default:
			out = appendEscape(out, r)
		}
	}
	return out
}

// embedRaw validates JSON produced outside the encoder and brings it in
// line with the encoder's own output: compact, valid UTF-8, escaped the
// same way.
func (e *Encoder) embedRaw(raw []byte, origin string) ([]byte, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("strictjson: %s produced invalid JSON", origin)
	}
	var buf bytes.Buffer
	if err := gojson.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("strictjson: compact %s output: %w", origin, err)
	}
	b := bytes.ToValidUTF8(buf.Bytes(), []byte(replacementChar))
	if e.escapeHTML {
		var esc bytes.Buffer
		json.HTMLEscape(&esc, b)
		b = esc.Bytes()
	}
	if e.ensureASCII {
		b = asciiOnly(b)
	}
	return b, nil
}

// validNumber reports whether n is a JSON number literal. A valid JSON text
// that starts with '-' or a digit and ends with a digit can only be a
// number.
func validNumber(n string) bool {
	if n == "" || !(n[0] == '-' || isDigit(n[0])) || !isDigit(n[len(n)-1]) {
		return false
	}
	return json.Valid([]byte(n))
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
