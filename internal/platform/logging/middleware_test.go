package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedRequest(t *testing.T, path string) (*http.Request, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.InfoLevel)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	ctx := context.WithValue(req.Context(), chimiddleware.RequestIDKey, "req-42")
	ctx = WithLogger(ctx, zap.New(core))
	return req.WithContext(ctx), recorded
}

func TestAccessLoggerRecordsSummary(t *testing.T) {
	req, recorded := observedRequest(t, "/tea")

	h := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "request completed" {
		t.Fatalf("unexpected log message: %s", entries[0].Message)
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("expected status 418, got %v", fields["status"])
	}
	if fields["path"] != "/tea" {
		t.Fatalf("expected path '/tea', got %v", fields["path"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Fatalf("unexpected bytes field: %v", fields["bytes"])
	}
	if _, ok := fields["duration"]; !ok {
		t.Fatalf("expected duration field, got %+v", fields)
	}
}

func TestRequestLoggerAttachesRequestID(t *testing.T) {
	req, recorded := observedRequest(t, "/api/hello")

	var traceID string
	h := requestLogger(func() string { return "" })(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		LogInfo(r.Context(), "inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if traceID != "req-42" {
		t.Fatalf("expected request ID as correlation, got %q", traceID)
	}
	entries := recorded.All()
	if len(entries) != 1 || entries[0].ContextMap()["requestId"] != "req-42" {
		t.Fatalf("expected requestId on request logger, got %+v", entries)
	}
}

func TestRequestLoggerUsesTraceparentWithProject(t *testing.T) {
	req, recorded := observedRequest(t, "/api/hello")
	req.Header.Set(traceparentHeader, sampledTraceparent)

	var traceID string
	h := requestLogger(func() string { return "test-project" })(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		LogInfo(r.Context(), "inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	want := "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb"
	if traceID != want {
		t.Fatalf("expected %q, got %q", want, traceID)
	}
	fields := recorded.All()[0].ContextMap()
	if fields["logging.googleapis.com/trace"] != want {
		t.Fatalf("trace field mismatch: %+v", fields)
	}
}
