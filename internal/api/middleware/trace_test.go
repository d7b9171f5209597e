package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/upscayl-gateway/internal/api/shared"
	"github.com/phrazzld/upscayl-gateway/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware_GeneratesTraceID(t *testing.T) {
	log, logs := logger.NewCapture(slog.LevelDebug)

	var traceID string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, traceID)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
	assert.Equal(t, traceID, rec.Header().Get(TraceIDHeader))

	// The request-scoped logger carries the trace ID.
	entry, ok := logs.Find("inside handler")
	require.True(t, ok, logs.String())
	assert.Equal(t, traceID, entry["trace_id"])
}

func TestTraceMiddleware_ReusesIncomingTraceID(t *testing.T) {
	incoming := uuid.NewString()

	var traceID string
	handler := TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, incoming)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, incoming, traceID)
	assert.Equal(t, incoming, rec.Header().Get(TraceIDHeader))
}

func TestTraceMiddleware_IgnoresMalformedTraceID(t *testing.T) {
	var traceID string
	handler := TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "<script>")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "<script>", traceID)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
}
