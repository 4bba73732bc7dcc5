// Package timeutil holds the time conventions shared by the scheduling
// pipeline: every naive (zone-less) datetime in this system is wall-clock
// JST (Asia/Tokyo), and all calendar I/O happens in UTC.
package timeutil

import (
	"regexp"
	"strings"
	"time"
)

// JST is the fixed business timezone. All naive datetimes mean Asia/Tokyo
// local time unless explicitly marked UTC.
var JST = mustLoadJST()

func mustLoadJST() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// Containers without tzdata still get correct wall-clock math:
		// Japan has no DST, so a fixed offset is equivalent.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// NowJST returns the current time in JST regardless of server timezone.
func NowJST() time.Time {
	return time.Now().In(JST)
}

// datetimeLayouts are the accepted layouts for model-emitted datetimes,
// tried in order.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// datetimePattern extracts a date+time substring from a messy string as a
// last resort, e.g. "around 2025-03-01 15:00 I think".
var datetimePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})[T ](\d{2}:\d{2}(?::\d{2})?)`)

// ParseDateTime parses a JST-naive datetime string against the accepted
// layouts, falling back to a regex extraction of anything datetime-shaped.
// Returns nil when nothing parses; it never fails hard.
func ParseDateTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, value, JST); err == nil {
			return &t
		}
	}

	m := datetimePattern.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	extracted := m[1] + " " + m[2]
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, extracted, JST); err == nil {
			return &t
		}
	}
	return nil
}

// ToUTC converts a time to the equivalent UTC instant. The conversion is
// always instant-preserving: a Go time carries an explicit offset, so the
// JST-naive convention is applied once at parse time (ParseDateTime), never
// here. Reinterpreting an offset-bearing time as JST wall clock would shift
// the instant by the offset difference.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
