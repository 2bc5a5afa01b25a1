package strictjson

import (
	"errors"
	"testing"
)

func TestNormalizeTimestamp(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2020-01-01T00:00:00+00:00", "2020-01-01"},
		{"2020-01-01T13:45:00+00:00", "2020-01-01 13:45:00"},
		{"2020-01-01T13:45:00-00:00", "2020-01-01 13:45:00"},
		{"2020-01-01T13:45:00Z", "2020-01-01 13:45:00"},
		{"2020-01-01T13:45:00+0000", "2020-01-01 13:45:00"},
		{"2020-01-01T13:45:00.123456+00:00", "2020-01-01 13:45:00.123456"},
		{"2020-01-01T13:45:00", "2020-01-01 13:45:00"},
		{"2020-01-01T00:00:00", "2020-01-01"},
		{"2020-01-01T00:00:00.5", "2020-01-01 00:00:00.5"},
		{"2020-01-01", "2020-01-01"},
		{"NaT", "NaT"},
	}
	for _, tc := range cases {
		got, err := NormalizeTimestamp(tc.in)
		if err != nil {
			t.Fatalf("NormalizeTimestamp(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTimestampRejectsOffsets(t *testing.T) {
	cases := []struct {
		in, offset string
	}{
		{"2020-01-01T13:45:00+05:00", "+05:00"},
		{"2020-01-01T13:45:00-08:00", "-08:00"},
		{"2020-01-01T13:45:00+05:30", "+05:30"},
		{"2020-01-01T13:45:00+0100", "+0100"},
		{"2020-01-01T13:45:00+01", "+01"},
		{"2020-01-01T00:00:00+00:00:01", "+00:00:01"},
		{"2020-01-01T13:45:00+xx:00", "+xx:00"},
	}
	for _, tc := range cases {
		got, err := NormalizeTimestamp(tc.in)
		if err == nil {
			t.Fatalf("NormalizeTimestamp(%q) = %q, expected rejection", tc.in, got)
		}
		if !errors.Is(err, ErrTimezoneRejected) {
			t.Fatalf("expected ErrTimezoneRejected, got %v", err)
		}
		var tz *TimezoneError
		if !errors.As(err, &tz) || tz.Offset != tc.offset || tz.Input != tc.in {
			t.Fatalf("unexpected error detail: %#v", err)
		}
	}
}

// The offset has to be parsed: comparing fragments produced by splitting
// on '-' or '+' against "00:00" never sees "+05:30" as an offset, so such
// a check lets every zoned timestamp through.
func TestNormalizeTimestampParsesOffsetField(t *testing.T) {
	if _, err := NormalizeTimestamp("2021-06-30T23:59:59+05:30"); !errors.Is(err, ErrTimezoneRejected) {
		t.Fatalf("zoned timestamp must be rejected, got %v", err)
	}
	if got, err := NormalizeTimestamp("2021-06-30T23:59:59-00:00"); err != nil || got != "2021-06-30 23:59:59" {
		t.Fatalf("-00:00 is UTC: got %q err=%v", got, err)
	}
}
