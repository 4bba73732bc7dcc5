package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/timeutil"
	"github.com/ymatsui/aical/internal/validation"
)

const (
	// DefaultTopic stands in when the model extracts no title.
	DefaultTopic = "AI Scheduler Meeting"
	// DefaultDurationMinutes applies when no duration is specified.
	DefaultDurationMinutes = 30
)

var (
	fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	bracePattern = regexp.MustCompile(`\{[\s\S]*\}`)
)

// extractJSON pulls a JSON object out of a model response that may wrap it
// in markdown fences or surrounding prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if !strings.HasPrefix(text, "{") {
		if m := bracePattern.FindString(text); m != "" {
			text = m
		}
	}
	return text
}

// rawIntent is the loosely-typed shape of the model's extraction output.
// Models occasionally emit numbers as strings (and vice versa), so every
// field is decoded permissively and coerced afterwards.
type rawIntent struct {
	Topic       any `json:"topic"`
	StartTime   any `json:"start_time"`
	Duration    any `json:"duration"`
	Attendees   any `json:"attendees"`
	Description any `json:"description"`
}

// rawUpdate mirrors rawIntent for update commands. Absent keys stay nil.
type rawUpdate struct {
	Topic       any `json:"topic"`
	StartTime   any `json:"start_time"`
	Duration    any `json:"duration"`
	Description any `json:"description"`
}

func decodeIntent(content string) (rawIntent, error) {
	var raw rawIntent
	err := json.Unmarshal([]byte(extractJSON(content)), &raw)
	return raw, err
}

func decodeUpdate(content string) (rawUpdate, error) {
	var raw rawUpdate
	err := json.Unmarshal([]byte(extractJSON(content)), &raw)
	return raw, err
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceInt(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	case json.Number:
		if parsed, err := n.Int64(); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// normalize turns a raw extraction into a candidate with defaults filled in
// and attendees reduced to well-formed email addresses. Status and decision
// source are attached by the caller.
func normalize(raw rawIntent, command string, testAttendee string) models.MeetingCandidate {
	topic := coerceString(raw.Topic)
	if topic == "" {
		topic = DefaultTopic
	}

	description := coerceString(raw.Description)
	if description == "" {
		description = strings.TrimSpace(command)
	}

	attendees := validation.FilterEmails(coerceStrings(raw.Attendees))
	if testAttendee != "" && validation.IsEmail(testAttendee) && !containsString(attendees, testAttendee) {
		attendees = append(attendees, testAttendee)
	}

	return models.MeetingCandidate{
		Topic:           topic,
		StartTime:       timeutil.ParseDateTime(coerceString(raw.StartTime)),
		DurationMinutes: coerceInt(raw.Duration, DefaultDurationMinutes),
		Attendees:       attendees,
		Description:     description,
	}
}

// normalizeUpdate maps a raw update onto the partial-update shape; only
// keys the model actually emitted become non-nil fields. An unparseable
// start time drops the field rather than failing the update.
func normalizeUpdate(raw rawUpdate) models.MeetingUpdate {
	var update models.MeetingUpdate

	if topic := coerceString(raw.Topic); topic != "" {
		update.Summary = &topic
	}
	if raw.StartTime != nil {
		update.StartTime = timeutil.ParseDateTime(coerceString(raw.StartTime))
	}
	if raw.Duration != nil {
		if minutes := coerceInt(raw.Duration, 0); minutes > 0 {
			update.DurationMinutes = &minutes
		}
	}
	if description := coerceString(raw.Description); description != "" {
		update.Description = &description
	}
	return update
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
