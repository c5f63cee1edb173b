// Package datetime normalises timestamps exchanged with the booking API to a
// single fixed zone, UTC+08:00, regardless of the viewer's local zone.
package datetime

import (
	"regexp"
	"strings"
	"time"
)

// Zone is the fixed zone every ambiguous timestamp is interpreted in.
var Zone = time.FixedZone("UTC+8", 8*60*60)

// Offset is the literal suffix appended to wall-clock timestamps.
const Offset = "+08:00"

const (
	displayLayout   = "2006/1/2 15:04:05"
	dateKeyLayout   = "2006-01-02"
	canonicalLayout = "2006-01-02T15:04:05-07:00"
)

var (
	zoneSuffixRe  = regexp.MustCompile(`(?i)(Z|[+-]\d{2}:\d{2})$`)
	subMillisRe   = regexp.MustCompile(`(\.\d{3})\d+`)
	dateOnlyRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	minutesOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
	wallClockRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,3})?$`)
)

// Normalize rewrites input into an offset-qualified ISO-8601 string.
//
// Blank input yields "". Inputs that already carry Z or an explicit offset are
// returned as-is (after sub-millisecond truncation). Date-only input becomes
// local midnight; date-times without an offset are labelled with +08:00 and
// their wall-clock fields are never shifted.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	// "YYYY-MM-DD HH:mm:ss" -> "YYYY-MM-DDTHH:mm:ss"
	if strings.Contains(s, " ") && !strings.Contains(s, "T") {
		s = strings.Replace(s, " ", "T", 1)
	}
	s = truncateSubMillis(s)

	if zoneSuffixRe.MatchString(s) {
		return s
	}
	if dateOnlyRe.MatchString(s) {
		return s + "T00:00:00" + Offset
	}
	if minutesOnlyRe.MatchString(s) {
		s += ":00"
	}
	if wallClockRe.MatchString(s) {
		return s + Offset
	}
	return s
}

// truncateSubMillis keeps at most three fractional digits of the first
// fractional-seconds group, e.g. Python's ".123456" becomes ".123".
func truncateSubMillis(s string) string {
	loc := subMillisRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[3]] + s[loc[1]:]
}

// Parse normalises input and parses it into an instant.
// The second return value is false for blank or unparseable input.
func Parse(input string) (time.Time, bool) {
	s := Normalize(input)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Millis returns input as Unix milliseconds.
func Millis(input string) (int64, bool) {
	t, ok := Parse(input)
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}

// FormatDisplay renders input for humans in the fixed zone, 24-hour clock.
// Unparseable input renders as "-".
func FormatDisplay(input string) string {
	t, ok := Parse(input)
	if !ok {
		return "-"
	}
	return t.In(Zone).Format(displayLayout)
}

// DateKey returns the YYYY-MM-DD calendar day of input in the fixed zone, or ""
// when input cannot be parsed. Used to bucket bookings by day.
func DateKey(input string) string {
	t, ok := Parse(input)
	if !ok {
		return ""
	}
	return t.In(Zone).Format(dateKeyLayout)
}

// FormatCanonical formats t as a second-precision timestamp with the fixed
// +08:00 offset. The zero time yields "".
func FormatCanonical(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Zone).Format(canonicalLayout)
}
