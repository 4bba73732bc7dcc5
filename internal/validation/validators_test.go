package validation

import (
	"reflect"
	"testing"
)

func TestIsEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"sarah@company.com", true},
		{"john@example.com", true},
		{"first.last+tag@sub.domain.co.jp", true},
		{"john@", false},
		{"@example.com", false},
		{"john@example", false},       // no dot in domain
		{"john@example.c", false},     // TLD too short
		{"john example.com", false},   // no @
		{"", false},
		{"john@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsEmail(tt.input); got != tt.want {
				t.Errorf("IsEmail(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterEmails(t *testing.T) {
	t.Parallel()

	got := FilterEmails([]string{"john@", "sarah@company.com", "", "alex@x.com", "not an email"})
	want := []string{"sarah@company.com", "alex@x.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterEmails() = %v, want %v", got, want)
	}

	if got := FilterEmails(nil); len(got) != 0 {
		t.Errorf("FilterEmails(nil) = %v, want empty", got)
	}
}

func TestIsMeetingStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"valid", "incomplete", "no_attendees", "too_soon", "not_working_hours"} {
		if !IsMeetingStatus(valid) {
			t.Errorf("IsMeetingStatus(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "ok", "VALID", "conflict"} {
		if IsMeetingStatus(invalid) {
			t.Errorf("IsMeetingStatus(%q) = true, want false", invalid)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"drops control characters", "a\x00b\x1fc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
