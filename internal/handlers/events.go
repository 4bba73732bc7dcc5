package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/scheduler"
	"github.com/ymatsui/aical/internal/validation"
)

// UpdateParser turns a free-text update command into a partial update.
type UpdateParser interface {
	ParseUpdate(ctx context.Context, command string) models.MeetingUpdate
}

// EventHandler handles direct event updates and deletions
type EventHandler struct {
	pipeline SchedulePipeline
	parser   UpdateParser
	logger   *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(pipeline SchedulePipeline, parser UpdateParser, logger *zap.Logger) *EventHandler {
	return &EventHandler{pipeline: pipeline, parser: parser, logger: logger}
}

// UpdateEventRequest represents an update request. Explicit fields win over
// anything extracted from Command.
type UpdateEventRequest struct {
	Summary         *string    `json:"summary,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Command         string     `json:"command,omitempty"`
}

// Update handles PUT /events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]
	if eventID == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Event ID is required")
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	update := models.MeetingUpdate{
		Summary:         req.Summary,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
	}

	// A free-text command fills in whatever the explicit fields left unset
	if command := validation.SanitizeText(req.Command); command != "" && h.parser != nil {
		parsed := h.parser.ParseUpdate(r.Context(), command)
		if update.Summary == nil {
			update.Summary = parsed.Summary
		}
		if update.StartTime == nil {
			update.StartTime = parsed.StartTime
		}
		if update.DurationMinutes == nil {
			update.DurationMinutes = parsed.DurationMinutes
		}
		if update.Description == nil {
			update.Description = parsed.Description
		}
	}

	outcome, err := h.pipeline.Update(r.Context(), eventID, update)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrNoUpdateFields):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "No update fields provided.")
		case errors.Is(err, scheduler.ErrEventTimeUnreadable):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unable to read existing event time.")
		default:
			h.logger.Error("event_update_failed", zap.String("event_id", eventID), zap.Error(err))
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		}
		return
	}

	if outcome.Conflict {
		respondJSONError(w, http.StatusConflict, "Conflict", "Updated time overlaps with an existing calendar event.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "updated",
		"event_id":    outcome.Event.ID,
		"summary":     outcome.Event.Summary,
		"start":       outcome.Event.Start.Format(time.RFC3339),
		"end":         outcome.Event.End.Format(time.RFC3339),
		"description": outcome.Event.Description,
	})
}

// Delete handles DELETE /events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]
	if eventID == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Event ID is required")
		return
	}

	if err := h.pipeline.Delete(r.Context(), eventID); err != nil {
		h.logger.Error("event_delete_failed", zap.String("event_id", eventID), zap.Error(err))
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "deleted",
		"event_id": eventID,
	})
}
