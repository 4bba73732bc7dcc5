package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging_RecordsStatusAndPath(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	middleware := Logging(logger)(handler)

	req := httptest.NewRequest("GET", "/schedule", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 http_request entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["method"] != "GET" {
		t.Errorf("Expected method GET, got %v", fields["method"])
	}
	if fields["path"] != "/schedule" {
		t.Errorf("Expected path /schedule, got %v", fields["path"])
	}
	if fields["status_code"] != int64(http.StatusNotFound) {
		t.Errorf("Expected status_code 404, got %v", fields["status_code"])
	}
}

func TestLogging_DefaultsToStatusOK(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	middleware := Logging(logger)(handler)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 http_request entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status_code"]; got != int64(http.StatusOK) {
		t.Errorf("Expected status_code 200, got %v", got)
	}
}
