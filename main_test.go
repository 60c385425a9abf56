package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), logger)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/ebitda", nil))

	id := resp.Header().Get(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid request id, got %q", id)
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Data["status"] != http.StatusTeapot || entry.Data["request_id"] != id {
		t.Fatalf("unexpected log fields %v", entry.Data)
	}
}

func TestLoggingMiddlewareKeepsRequestID(t *testing.T) {
	logger, _ := test.NewNullLogger()
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), logger)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Header().Get(requestIDHeader) != "req-1" {
		t.Fatalf("expected request id to be propagated")
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	if newLogger("verbose").GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level fallback")
	}
	if newLogger("debug").GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level")
	}
}
