package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/ymatsui/aical/internal/models"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeMeetingNotification is a job for sending meeting notification emails
	JobTypeMeetingNotification JobType = "meeting_notification"
)

// Job represents a job in the queue
type Job struct {
	ID           uuid.UUID                  `json:"id"`
	Type         JobType                    `json:"type"`
	Notification models.MeetingNotification `json:"notification"`
	NotBefore    *time.Time                 `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter     *time.Time                 `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	CreatedAt    time.Time                  `json:"created_at"`
	RetryCount   int                        `json:"retry_count"`
	MaxRetries   int                        `json:"max_retries"`
}

// NewNotificationJob creates a notification job. The job expires at the
// meeting's start time: an invitation email after the meeting began is noise.
func NewNotificationJob(n models.MeetingNotification) *Job {
	job := &Job{
		ID:           uuid.New(),
		Type:         JobTypeMeetingNotification,
		Notification: n,
		CreatedAt:    time.Now(),
		RetryCount:   0,
		MaxRetries:   3,
	}
	if !n.StartTime.IsZero() {
		notAfter := n.StartTime
		job.NotAfter = &notAfter
	}
	return job
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
