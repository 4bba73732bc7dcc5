// Package workers contains the queue consumers run by the worker binary.
package workers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/queue"
	"github.com/ymatsui/aical/internal/services/notify"
)

// NotificationSender processes meeting notification jobs from the queue.
type NotificationSender struct {
	mailer   *notify.Mailer
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewNotificationSender creates a notification sender.
func NewNotificationSender(mailer *notify.Mailer, jobQueue queue.JobQueue, logger *zap.Logger) *NotificationSender {
	return &NotificationSender{
		mailer:   mailer,
		jobQueue: jobQueue,
		logger:   logger,
	}
}

// ProcessJob handles one queued message end to end, including its
// acknowledgement. Send failures are retried by re-enqueueing with a bumped
// retry count; exhausted jobs are dead-lettered.
func (s *NotificationSender) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.Type != queue.JobTypeMeetingNotification {
		// Unknown job type goes straight to the DLQ for inspection.
		_ = msg.Nack(false)
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	if job.IsExpired() {
		s.logger.Info("notification_job_expired",
			zap.String("job_id", job.ID.String()),
			zap.String("event_id", job.Notification.EventID),
		)
		return msg.Ack()
	}

	if err := s.mailer.Send(ctx, job.Notification); err != nil {
		return s.handleFailure(ctx, msg, err)
	}

	s.logger.Info("notification_sent",
		zap.String("job_id", job.ID.String()),
		zap.String("event_id", job.Notification.EventID),
		zap.Int("recipient_count", len(job.Notification.Recipients)),
	)
	return msg.Ack()
}

func (s *NotificationSender) handleFailure(ctx context.Context, msg queue.MessageInterface, sendErr error) error {
	job := msg.GetJob()

	if !job.CanRetry() {
		s.logger.Error("notification_retries_exhausted",
			zap.String("job_id", job.ID.String()),
			zap.String("event_id", job.Notification.EventID),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(sendErr),
		)
		// Dead-letter the message.
		_ = msg.Nack(false)
		return sendErr
	}

	job.IncrementRetry()
	s.logger.Warn("notification_send_retrying",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(sendErr),
	)

	// Re-publish the bumped job before acking the original so the message
	// is never lost between the two steps failing.
	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		_ = msg.Nack(true)
		return fmt.Errorf("failed to re-enqueue job: %w", err)
	}
	return msg.Ack()
}
