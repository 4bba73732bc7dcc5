package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/queue"
)

// dispatchTimeout bounds a single in-process delivery attempt.
const dispatchTimeout = 30 * time.Second

// AsyncDispatcher sends notifications from a background goroutine within the
// API process. It is the default path when no message broker is configured.
type AsyncDispatcher struct {
	mailer *Mailer
	logger *zap.Logger
}

// NewAsyncDispatcher creates an in-process dispatcher.
func NewAsyncDispatcher(mailer *Mailer, logger *zap.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{mailer: mailer, logger: logger}
}

// Dispatch fires the send in a goroutine detached from the request context:
// the HTTP response must not wait on SMTP, and a cancelled request must not
// kill an in-flight send. Failures are logged and swallowed.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, n models.MeetingNotification) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	go func() {
		defer cancel()
		if err := d.mailer.Send(sendCtx, n); err != nil {
			d.logger.Warn("notification_send_failed",
				zap.String("event_id", n.EventID),
				zap.Int("recipient_count", len(n.Recipients)),
				zap.Error(err),
			)
		}
	}()
}

// QueueDispatcher hands notifications to the message broker for a separate
// worker process to deliver. When the enqueue itself fails, it falls back to
// the in-process path so a broker outage does not silence notifications.
type QueueDispatcher struct {
	jobs     queue.JobQueue
	fallback *AsyncDispatcher
	logger   *zap.Logger
}

// NewQueueDispatcher creates a broker-backed dispatcher.
func NewQueueDispatcher(jobs queue.JobQueue, fallback *AsyncDispatcher, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{jobs: jobs, fallback: fallback, logger: logger}
}

// Dispatch enqueues a notification job.
func (d *QueueDispatcher) Dispatch(ctx context.Context, n models.MeetingNotification) {
	job := queue.NewNotificationJob(n)
	if err := d.jobs.Enqueue(ctx, job); err != nil {
		d.logger.Warn("notification_enqueue_failed",
			zap.String("event_id", n.EventID),
			zap.Error(err),
		)
		if d.fallback != nil {
			d.fallback.Dispatch(ctx, n)
		}
		return
	}
	d.logger.Debug("notification_enqueued",
		zap.String("job_id", job.ID.String()),
		zap.String("event_id", n.EventID),
	)
}
