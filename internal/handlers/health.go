package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ymatsui/aical/internal/database"
	"github.com/ymatsui/aical/internal/queue"
)

// AuthStatusReporter reports whether the calendar OAuth flow has completed.
type AuthStatusReporter interface {
	IsAuthenticated() bool
}

// HealthChecker handles health check requests. The database and queue are
// optional collaborators; nil ones are reported as disabled rather than
// unhealthy.
type HealthChecker struct {
	db       *database.DB
	jobQueue queue.JobQueue
	auth     AuthStatusReporter
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *database.DB, jobQueue queue.JobQueue, auth AuthStatusReporter) *HealthChecker {
	return &HealthChecker{db: db, jobQueue: jobQueue, auth: auth}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		if h.db == nil {
			checks["database"] = "disabled"
		} else if err := h.checkDatabase(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}

		if h.jobQueue == nil {
			checks["queue"] = "disabled"
		} else if err := h.jobQueue.HealthCheck(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["queue"] = "unhealthy: " + err.Error()
		} else {
			checks["queue"] = "healthy"
		}

		// Missing calendar auth is reported but not unhealthy: a fresh
		// deployment legitimately starts unauthenticated
		if h.auth != nil {
			if h.auth.IsAuthenticated() {
				checks["calendar_auth"] = "authenticated"
			} else {
				checks["calendar_auth"] = "not_authenticated"
			}
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies the database connection
func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.db.PingContext(ctx)
}
