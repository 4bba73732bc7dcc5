package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	logpkg "github.com/ymatsui/aical/internal/logger"
	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/scheduler"
	"github.com/ymatsui/aical/internal/validation"
)

const (
	// MaxCommandLength is the maximum length for a scheduling command
	MaxCommandLength = 2000
	// startTimeDisplayLayout is the wall-clock format returned to clients
	startTimeDisplayLayout = "2006-01-02 15:04"
)

// SchedulePipeline is the scheduling service surface the handlers need.
type SchedulePipeline interface {
	Schedule(ctx context.Context, command string, history []string) (*scheduler.ScheduleOutcome, error)
	Update(ctx context.Context, eventID string, update models.MeetingUpdate) (*scheduler.UpdateOutcome, error)
	Delete(ctx context.Context, eventID string) error
}

// ScheduleHandler handles natural-language scheduling requests
type ScheduleHandler struct {
	pipeline SchedulePipeline
	logger   *zap.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(pipeline SchedulePipeline, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{pipeline: pipeline, logger: logger}
}

// TextCommand represents a natural-language scheduling request
type TextCommand struct {
	Command string   `json:"command" validate:"required,min=1,max=2000"`
	History []string `json:"history,omitempty"`
}

// cancellationResponse is the envelope returned when a command does not
// result in a booking.
func cancellationResponse(status, reason string) map[string]any {
	return map[string]any{
		"status":  status,
		"message": "Canceled",
		"reason":  reason,
	}
}

// Schedule handles POST /schedule
func (h *ScheduleHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req TextCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	req.Command = validation.SanitizeText(req.Command)
	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	h.logger.Info("schedule_command_received",
		zap.String("command", logpkg.SanitizeCommand(req.Command)),
		zap.Int("history_length", len(req.History)),
	)

	outcome, err := h.pipeline.Schedule(r.Context(), req.Command, req.History)
	if err != nil {
		h.logger.Error("schedule_pipeline_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if outcome.Conflict {
		writeJSON(w, http.StatusOK, cancellationResponse("conflict", "Meeting overlaps with an existing calendar event"))
		return
	}

	candidate := outcome.Candidate
	if !outcome.Scheduled() {
		status := string(candidate.Status)
		if status == "" {
			status = string(models.StatusIncomplete)
		}
		reason := candidate.Reason
		if reason == "" {
			reason = "Incomplete meeting details."
		}
		writeJSON(w, http.StatusOK, cancellationResponse(status, reason))
		return
	}

	meetLink := outcome.Event.MeetLink
	if meetLink == "" {
		meetLink = "No meet link generated"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     string(candidate.Status),
		"message":    fmt.Sprintf("Meeting scheduled: %s", candidate.Topic),
		"meet_link":  meetLink,
		"event_id":   outcome.Event.ID,
		"start_time": candidate.StartTime.Format(startTimeDisplayLayout),
		"duration":   candidate.DurationMinutes,
		"topic":      candidate.Topic,
	})
}
