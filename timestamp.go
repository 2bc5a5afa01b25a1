package strictjson

import (
	"fmt"
	"strings"
	"time"
)

const midnight = "T00:00:00"

// NormalizeTimestamp turns an ISO-8601 date or date-time into the UTC,
// delimiter-free form used in output:
//
//	2020-01-01T00:00:00+00:00 -> 2020-01-01
//	2020-01-01T13:45:00+00:00 -> 2020-01-01 13:45:00
//
// A non-zero offset is rejected with *TimezoneError. Naive inputs and
// inputs without a time component are accepted as is. Strings that do not
// start with a calendar date are returned unchanged.
func NormalizeTimestamp(iso string) (string, error) {
	i := strings.IndexByte(iso, 'T')
	if i < 0 || !isCalendarDate(iso[:i]) {
		return iso, nil
	}

	clock, offset := splitOffset(iso[i+1:])
	if offset != "" && !isZeroOffset(offset) {
		return "", &TimezoneError{Input: iso, Offset: offset}
	}

	s := iso[:i+1] + clock
	if strings.HasSuffix(s, midnight) {
		return strings.TrimSuffix(s, midnight), nil
	}
	return iso[:i] + " " + clock, nil
}

// isoFormat renders t in UTC the way ISO-8601 writers usually do: an
// explicit +00:00 offset and a fractional part only when non-zero.
func isoFormat(t time.Time) string {
	t = t.In(time.UTC)
	s := t.Format("2006-01-02T15:04:05")
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%1000 == 0:
		s += fmt.Sprintf(".%06d", ns/1000)
	default:
		s += fmt.Sprintf(".%09d", ns)
	}
	return s + "+00:00"
}

func isCalendarDate(s string) bool {
	if len(s) < 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// splitOffset separates a trailing UTC offset ("Z", "±HH", "±HHMM",
// "±HH:MM", "±HH:MM:SS") from the clock part of a timestamp.
func splitOffset(clock string) (string, string) {
	if strings.HasSuffix(clock, "Z") || strings.HasSuffix(clock, "z") {
		return clock[:len(clock)-1], "Z"
	}
	if i := strings.LastIndexAny(clock, "+-"); i >= 0 {
		return clock[:i], clock[i:]
	}
	return clock, ""
}

// isZeroOffset reports whether offset denotes UTC. Anything that does not
// parse as a well-formed zero offset counts as non-zero.
func isZeroOffset(offset string) bool {
	if offset == "Z" {
		return true
	}
	digits := strings.ReplaceAll(offset[1:], ":", "")
	if len(digits) == 0 || len(digits)%2 != 0 || len(digits) > 6 {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] != '0' {
			return false
		}
	}
	return true
}
