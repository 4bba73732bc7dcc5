package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ymatsui/aical/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

// emailPattern is the canonical attendee email grammar: local part, one @,
// domain with at least one dot and a TLD of two or more letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func init() {
	Validate = validator.New()

	// Register custom validator for the meeting status enum
	if err := Validate.RegisterValidation("meeting_status", validateMeetingStatus); err != nil {
		panic(fmt.Sprintf("failed to register meeting_status validator: %v", err))
	}
}

// validateMeetingStatus validates that a string is a valid MeetingStatus enum value
func validateMeetingStatus(fl validator.FieldLevel) bool {
	return IsMeetingStatus(fl.Field().String())
}

// IsMeetingStatus reports whether value is one of the recognized statuses.
func IsMeetingStatus(value string) bool {
	switch models.MeetingStatus(value) {
	case models.StatusValid, models.StatusIncomplete, models.StatusNoAttendees,
		models.StatusTooSoon, models.StatusNotWorkingHours:
		return true
	default:
		return false
	}
}

// IsEmail reports whether value matches the attendee email grammar.
// Malformed addresses are dropped by callers, never errored.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// FilterEmails returns only the values that match the email grammar,
// preserving order.
func FilterEmails(values []string) []string {
	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if IsEmail(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
