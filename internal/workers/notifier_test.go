package workers

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/queue"
	"github.com/ymatsui/aical/internal/services/notify"
)

type fakeMessage struct {
	job     *queue.Job
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeMessage) Ack() error {
	f.acked = true
	return nil
}

func (f *fakeMessage) Nack(requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeMessage) GetJob() *queue.Job {
	return f.job
}

type fakeJobQueue struct {
	enqueued []*queue.Job
}

func (f *fakeJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	f.enqueued = append(f.enqueued, job)
	return nil
}

func (f *fakeJobQueue) Consume(context.Context, int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (f *fakeJobQueue) Close() error { return nil }

func (f *fakeJobQueue) HealthCheck(context.Context) error { return nil }

// disabledMailer returns a mailer with no SMTP host, whose Send is a no-op
// success.
func disabledMailer() *notify.Mailer {
	return notify.NewMailer(notify.Config{}, zap.NewNop())
}

func notificationJob(start time.Time) *queue.Job {
	return queue.NewNotificationJob(models.MeetingNotification{
		EventID:         "evt-1",
		Topic:           "planning",
		StartTime:       start,
		DurationMinutes: 30,
		Recipients:      []string{"sarah@company.com"},
	})
}

func TestProcessJobAcksOnSuccess(t *testing.T) {
	sender := NewNotificationSender(disabledMailer(), &fakeJobQueue{}, zap.NewNop())
	msg := &fakeMessage{job: notificationJob(time.Now().Add(6 * time.Hour))}

	if err := sender.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob() error = %v", err)
	}
	if !msg.acked {
		t.Error("message was not acked")
	}
	if msg.nacked {
		t.Error("message was nacked on success")
	}
}

func TestProcessJobAcksExpiredJob(t *testing.T) {
	sender := NewNotificationSender(disabledMailer(), &fakeJobQueue{}, zap.NewNop())

	job := notificationJob(time.Now().Add(6 * time.Hour))
	past := time.Now().Add(-time.Minute)
	job.NotAfter = &past
	msg := &fakeMessage{job: job}

	if err := sender.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob() error = %v", err)
	}
	if !msg.acked {
		t.Error("expired job was not acked away")
	}
}

func TestProcessJobDeadLettersUnknownType(t *testing.T) {
	sender := NewNotificationSender(disabledMailer(), &fakeJobQueue{}, zap.NewNop())

	job := notificationJob(time.Now().Add(6 * time.Hour))
	job.Type = queue.JobType("mystery")
	msg := &fakeMessage{job: job}

	if err := sender.ProcessJob(context.Background(), msg); err == nil {
		t.Error("ProcessJob() error = nil, want unknown type error")
	}
	if !msg.nacked || msg.requeue {
		t.Error("unknown job type was not dead-lettered")
	}
}
