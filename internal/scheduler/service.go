package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/timeutil"
)

var (
	// ErrNoUpdateFields is returned when an update request changes nothing.
	ErrNoUpdateFields = errors.New("no update fields provided")
	// ErrEventTimeUnreadable is returned when an existing event's times
	// cannot be read for a reschedule conflict check.
	ErrEventTimeUnreadable = errors.New("unable to read existing event time")
)

// decisionRecordTimeout bounds the audit write so it cannot stall a request.
const decisionRecordTimeout = 3 * time.Second

// ScheduleOutcome is the result of one pass through the pipeline.
// Event is non-nil only when the meeting was actually booked.
type ScheduleOutcome struct {
	Candidate models.MeetingCandidate
	Conflict  bool
	Event     *models.Event
}

// Scheduled reports whether the candidate was committed to the calendar.
func (o *ScheduleOutcome) Scheduled() bool {
	return o.Event != nil
}

// UpdateOutcome is the result of an event update request.
type UpdateOutcome struct {
	Conflict bool
	Event    *models.Event
}

// Service runs the scheduling pipeline: extract, reconcile, conflict-check,
// book, notify. The pipeline is synchronous per request; notification
// dispatch is the only asynchronous step.
type Service struct {
	parser     IntentParser
	reconciler *Reconciler
	conflicts  *ConflictChecker
	calendar   CalendarGateway
	notifier   NotificationDispatcher
	decisions  DecisionRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithDecisionRecorder enables audit logging of scheduling decisions.
func WithDecisionRecorder(recorder DecisionRecorder) ServiceOption {
	return func(s *Service) { s.decisions = recorder }
}

// NewService wires the pipeline together.
func NewService(parser IntentParser, reconciler *Reconciler, conflicts *ConflictChecker, calendar CalendarGateway, notifier NotificationDispatcher, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		parser:     parser,
		reconciler: reconciler,
		conflicts:  conflicts,
		calendar:   calendar,
		notifier:   notifier,
		logger:     logger,
		now:        timeutil.NowJST,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule runs the full pipeline for one natural-language command.
// Policy rejections and conflicts are normal outcomes carried in the
// returned ScheduleOutcome; the error return is reserved for downstream
// service failures (calendar read/write).
func (s *Service) Schedule(ctx context.Context, command string, history []string) (*ScheduleOutcome, error) {
	candidate := s.parser.Parse(ctx, command, history)
	candidate = s.reconciler.Reconcile(candidate, s.now())

	outcome := &ScheduleOutcome{Candidate: candidate}
	defer s.recordDecision(ctx, command, outcome)

	if candidate.Status != models.StatusValid {
		s.logger.Info("schedule_rejected",
			zap.String("status", string(candidate.Status)),
			zap.String("reason", candidate.Reason),
			zap.String("decision_source", string(candidate.DecisionSource)),
		)
		return outcome, nil
	}

	conflict, err := s.conflicts.HasOverlap(ctx, *candidate.StartTime, candidate.DurationMinutes, "")
	if err != nil {
		return outcome, err
	}
	if conflict {
		outcome.Conflict = true
		s.logger.Info("schedule_conflict",
			zap.Time("start_time", *candidate.StartTime),
			zap.Int("duration_minutes", candidate.DurationMinutes),
		)
		return outcome, nil
	}

	event, err := s.calendar.CreateEvent(ctx, CreateEventInput{
		Summary:         candidate.Topic,
		StartTime:       *candidate.StartTime,
		DurationMinutes: candidate.DurationMinutes,
		Description:     candidate.Description,
		Attendees:       candidate.Attendees,
		AddMeetLink:     true,
	})
	if err != nil {
		return outcome, fmt.Errorf("failed to create calendar event: %w", err)
	}
	outcome.Event = event

	s.logger.Info("meeting_scheduled",
		zap.String("event_id", event.ID),
		zap.String("topic", candidate.Topic),
		zap.Time("start_time", *candidate.StartTime),
		zap.Int("duration_minutes", candidate.DurationMinutes),
		zap.Int("attendee_count", len(candidate.Attendees)),
	)

	s.notifier.Dispatch(ctx, buildNotification(event, candidate))
	return outcome, nil
}

// Update applies a partial update, conflict-checking the target slot when
// the time or duration changes. The event being moved is excluded from its
// own conflict check.
func (s *Service) Update(ctx context.Context, eventID string, update models.MeetingUpdate) (*UpdateOutcome, error) {
	if update.Empty() {
		return nil, ErrNoUpdateFields
	}

	if update.StartTime != nil || update.DurationMinutes != nil {
		existing, err := s.calendar.GetEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to read existing event: %w", err)
		}
		if existing.Start.IsZero() || existing.End.IsZero() {
			return nil, ErrEventTimeUnreadable
		}

		targetStart := existing.Start
		if update.StartTime != nil {
			targetStart = *update.StartTime
		}
		targetDuration := int(existing.End.Sub(existing.Start).Minutes())
		if update.DurationMinutes != nil {
			targetDuration = *update.DurationMinutes
		}

		conflict, err := s.conflicts.HasOverlap(ctx, targetStart, targetDuration, eventID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return &UpdateOutcome{Conflict: true}, nil
		}
	}

	event, err := s.calendar.UpdateEvent(ctx, eventID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &UpdateOutcome{Event: event}, nil
}

// Delete removes an event from the calendar.
func (s *Service) Delete(ctx context.Context, eventID string) error {
	if err := s.calendar.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// recordDecision writes an audit record of the pipeline outcome. Failures
// are logged and swallowed; auditing never affects the scheduling result.
func (s *Service) recordDecision(ctx context.Context, command string, outcome *ScheduleOutcome) {
	if s.decisions == nil {
		return
	}

	decision := &models.SchedulingDecision{
		ID:             uuid.New(),
		Command:        command,
		Status:         outcome.Candidate.Status,
		Reason:         outcome.Candidate.Reason,
		DecisionSource: outcome.Candidate.DecisionSource,
		CreatedAt:      time.Now().UTC(),
	}
	if outcome.Conflict {
		decision.Reason = "Meeting overlaps with an existing calendar event"
	}
	if outcome.Event != nil {
		decision.EventID = outcome.Event.ID
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), decisionRecordTimeout)
	defer cancel()
	if err := s.decisions.Record(recordCtx, decision); err != nil {
		s.logger.Warn("failed_to_record_scheduling_decision", zap.Error(err))
	}
}

// buildNotification derives the notification payload from the booked event:
// the host (organizer, falling back to creator) plus attendees, deduplicated.
func buildNotification(event *models.Event, candidate models.MeetingCandidate) models.MeetingNotification {
	seen := make(map[string]bool)
	recipients := make([]string, 0, len(event.Attendees)+1)

	host := event.Organizer
	if host == "" {
		host = event.Creator
	}
	if host != "" {
		seen[host] = true
		recipients = append(recipients, host)
	}
	for _, attendee := range event.Attendees {
		if attendee == "" || seen[attendee] {
			continue
		}
		seen[attendee] = true
		recipients = append(recipients, attendee)
	}

	return models.MeetingNotification{
		EventID:         event.ID,
		Topic:           candidate.Topic,
		StartTime:       *candidate.StartTime,
		DurationMinutes: candidate.DurationMinutes,
		MeetLink:        event.MeetLink,
		Recipients:      recipients,
	}
}
