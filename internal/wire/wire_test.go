package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (string, []byte) {
	t.Helper()
	c, p, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return c, p
}

func TestRoundTripEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		codec   string
		payload []byte
	}{
		{"json", nil},
		{"json", []byte(`{"a":1}`)},
		{"msgpack+zstd", []byte{0, 1, 2, 3, 4}},
		{strings.Repeat("c", 255), []byte("x")},
	}
	for _, tc := range cases {
		enc := Encode(tc.codec, tc.payload)
		c, p := mustDecode(t, enc)
		if c != tc.codec {
			t.Fatalf("codec mismatch: got %q want %q", c, tc.codec)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := Encode("json", []byte("null"))
	enc = append(enc, 0)
	if _, _, err := Decode(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestRejectsBadHeader(t *testing.T) {
	good := Encode("json", []byte("true"))

	badMagic := append([]byte(nil), good...)
	badMagic[0] = 'X'

	badVersion := append([]byte(nil), good...)
	badVersion[4] = version + 1

	zeroCodec := append([]byte(nil), good...)
	zeroCodec[5] = 0

	for name, b := range map[string][]byte{
		"magic":     badMagic,
		"version":   badVersion,
		"codec len": zeroCodec,
		"short":     good[:5],
		"empty":     nil,
	} {
		if _, _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestRejectsChecksumMismatch(t *testing.T) {
	enc := Encode("json", []byte(`[1,2,3]`))
	enc[len(enc)-2] ^= 0xFF
	if _, _, err := Decode(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestRejectsLengthOverflow(t *testing.T) {
	enc := Encode("json", []byte("1"))
	// plen sits right before the payload
	off := len(enc) - 1 - 4
	binary.BigEndian.PutUint32(enc[off:off+4], 0xFFFFFFFF)
	if _, _, err := Decode(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestEncodePanicsOnEmptyCodec(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = Encode("", nil)
}
