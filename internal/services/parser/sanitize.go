package parser

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errNoChoices = errors.New("no choices in response")

const (
	// maxPreviewLength caps preview strings in normal debug logs.
	maxPreviewLength = 200
	// maxDebugContentLength caps full-content debug logs.
	maxDebugContentLength = 10000
)

// SanitizePreview creates a safe preview of model input/output for logging:
// control characters stripped, UTF-8 validated, length capped. full=true
// allows the longer debug cap instead of the preview cap.
func SanitizePreview(s string, full bool) string {
	if s == "" {
		return ""
	}

	maxLen := maxPreviewLength
	if full {
		maxLen = maxDebugContentLength
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

// SanitizeAPIKey redacts an API key for logging, keeping just enough of the
// ends to tell keys apart.
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "[REDACTED]"
	}
	return apiKey[:4] + "[REDACTED]" + apiKey[len(apiKey)-4:]
}
