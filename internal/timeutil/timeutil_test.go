package timeutil

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{
			name:  "space separated with seconds",
			input: "2025-03-01 15:00:00",
			want:  timePtr(time.Date(2025, 3, 1, 15, 0, 0, 0, JST)),
		},
		{
			name:  "space separated without seconds",
			input: "2025-03-01 15:00",
			want:  timePtr(time.Date(2025, 3, 1, 15, 0, 0, 0, JST)),
		},
		{
			name:  "ISO T separator with seconds",
			input: "2025-03-01T15:00:00",
			want:  timePtr(time.Date(2025, 3, 1, 15, 0, 0, 0, JST)),
		},
		{
			name:  "ISO T separator without seconds",
			input: "2025-03-01T15:00",
			want:  timePtr(time.Date(2025, 3, 1, 15, 0, 0, 0, JST)),
		},
		{
			name:  "datetime embedded in prose",
			input: "The meeting is at 2025-03-01 15:00 as requested",
			want:  timePtr(time.Date(2025, 3, 1, 15, 0, 0, 0, JST)),
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  nil,
		},
		{
			name:  "garbage",
			input: "next sunday at 3pm",
			want:  nil,
		},
		{
			name:  "date without time",
			input: "2025-03-01",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateTime(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseDateTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("ParseDateTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{
			name: "back to back intervals do not overlap",
			s1:   at(0), e1: at(30), s2: at(30), e2: at(90),
			want: false,
		},
		{
			name: "one minute of shared time overlaps",
			s1:   at(0), e1: at(31), s2: at(30), e2: at(90),
			want: true,
		},
		{
			name: "containment overlaps",
			s1:   at(0), e1: at(120), s2: at(30), e2: at(60),
			want: true,
		},
		{
			name: "disjoint intervals do not overlap",
			s1:   at(0), e1: at(30), s2: at(60), e2: at(90),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{
			name:  "JST wall clock converts by offset",
			input: time.Date(2025, 3, 1, 12, 0, 0, 0, JST),
			want:  time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "UTC input passes through unchanged",
			input: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "unnamed zero-offset zone keeps its instant",
			input: time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("", 0)),
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "foreign offset converts without reinterpretation",
			input: time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 5*60*60+30*60)),
			want:  time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToUTC(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("ToUTC(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
