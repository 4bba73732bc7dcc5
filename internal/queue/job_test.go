package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ymatsui/aical/internal/models"
)

func sampleNotification(start time.Time) models.MeetingNotification {
	return models.MeetingNotification{
		EventID:         "evt-1",
		Topic:           "planning",
		StartTime:       start,
		DurationMinutes: 30,
		Recipients:      []string{"sarah@company.com"},
	}
}

func TestNewNotificationJob(t *testing.T) {
	start := time.Now().Add(6 * time.Hour)
	job := NewNotificationJob(sampleNotification(start))

	if job.Type != JobTypeMeetingNotification {
		t.Errorf("type = %q, want %q", job.Type, JobTypeMeetingNotification)
	}
	if job.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("job has zero id")
	}
	if job.MaxRetries != 3 {
		t.Errorf("max retries = %d, want 3", job.MaxRetries)
	}
	if job.NotAfter == nil || !job.NotAfter.Equal(start) {
		t.Errorf("not_after = %v, want meeting start %v", job.NotAfter, start)
	}
}

func TestNewNotificationJobWithoutStartTime(t *testing.T) {
	job := NewNotificationJob(sampleNotification(time.Time{}))
	if job.NotAfter != nil {
		t.Errorf("not_after = %v, want nil for zero start time", job.NotAfter)
	}
}

func TestJobShouldProcess(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		notBefore *time.Time
		notAfter  *time.Time
		want      bool
	}{
		{"no window", nil, nil, true},
		{"not before in past", &past, nil, true},
		{"not before in future", &future, nil, false},
		{"not after in future", nil, &future, true},
		{"not after in past", nil, &past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewNotificationJob(sampleNotification(time.Time{}))
			job.NotBefore = tt.notBefore
			job.NotAfter = tt.notAfter
			if got := job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobIsExpired(t *testing.T) {
	job := NewNotificationJob(sampleNotification(time.Time{}))
	if job.IsExpired() {
		t.Error("IsExpired() = true with no expiration")
	}

	past := time.Now().Add(-time.Minute)
	job.NotAfter = &past
	if !job.IsExpired() {
		t.Error("IsExpired() = false past the expiration")
	}
}

func TestJobRetryAccounting(t *testing.T) {
	job := NewNotificationJob(sampleNotification(time.Time{}))

	for i := 0; i < job.MaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("CanRetry() = false at retry %d of %d", i, job.MaxRetries)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("CanRetry() = true after exhausting retries")
	}
}

func TestJobJSONRoundTrip(t *testing.T) {
	start := time.Now().Add(6 * time.Hour).Round(time.Second)
	job := NewNotificationJob(sampleNotification(start))

	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Job
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.ID != job.ID {
		t.Errorf("id = %v, want %v", decoded.ID, job.ID)
	}
	if decoded.Notification.EventID != "evt-1" {
		t.Errorf("event id = %q, want evt-1", decoded.Notification.EventID)
	}
	if len(decoded.Notification.Recipients) != 1 {
		t.Errorf("recipients = %v, want 1 entry", decoded.Notification.Recipients)
	}
}
