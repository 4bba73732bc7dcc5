package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

func TestToEventConvertsTimedEvent(t *testing.T) {
	item := &gcal.Event{
		Id:          "evt-1",
		Summary:     "planning",
		Description: "quarterly planning",
		Status:      "confirmed",
		HangoutLink: "https://meet.google.com/abc-defg-hij",
		Organizer:   &gcal.EventOrganizer{Email: "host@company.com"},
		Creator:     &gcal.EventCreator{Email: "creator@company.com"},
		Attendees: []*gcal.EventAttendee{
			{Email: "sarah@company.com"},
			{Email: ""},
		},
		Start: &gcal.EventDateTime{DateTime: "2025-03-03T20:00:00+09:00"},
		End:   &gcal.EventDateTime{DateTime: "2025-03-03T21:00:00+09:00"},
	}

	event, ok := toEvent(item)
	require.True(t, ok)
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "host@company.com", event.Organizer)
	assert.Equal(t, "creator@company.com", event.Creator)
	assert.Equal(t, []string{"sarah@company.com"}, event.Attendees)
	assert.Equal(t, time.Date(2025, time.March, 3, 11, 0, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC), event.End)
}

func TestToEventSkipsAllDayEvent(t *testing.T) {
	item := &gcal.Event{
		Id:    "all-day",
		Start: &gcal.EventDateTime{Date: "2025-03-03"},
		End:   &gcal.EventDateTime{Date: "2025-03-04"},
	}

	_, ok := toEvent(item)
	assert.False(t, ok)
}

func TestToEventFallsBackToConferenceEntryPoint(t *testing.T) {
	item := &gcal.Event{
		Id: "evt-2",
		ConferenceData: &gcal.ConferenceData{
			EntryPoints: []*gcal.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+81-3-0000-0000"},
				{EntryPointType: "video", Uri: "https://meet.google.com/xyz"},
			},
		},
		Start: &gcal.EventDateTime{DateTime: "2025-03-03T20:00:00+09:00"},
		End:   &gcal.EventDateTime{DateTime: "2025-03-03T21:00:00+09:00"},
	}

	event, ok := toEvent(item)
	require.True(t, ok)
	assert.Equal(t, "https://meet.google.com/xyz", event.MeetLink)
}

func TestEventDuration(t *testing.T) {
	event := &gcal.Event{
		Start: &gcal.EventDateTime{DateTime: "2025-03-03T20:00:00+09:00"},
		End:   &gcal.EventDateTime{DateTime: "2025-03-03T20:45:00+09:00"},
	}

	duration, err := eventDuration(event)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, duration)
}

func TestParseEventTimeRejectsAllDay(t *testing.T) {
	_, err := parseEventTime(&gcal.EventDateTime{Date: "2025-03-03"})
	assert.Error(t, err)

	_, err = parseEventTime(nil)
	assert.Error(t, err)
}
