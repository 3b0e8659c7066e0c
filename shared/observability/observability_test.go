package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestMetricsExposeReplies(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	m.RecordReply(context.Background(), "hosted", "http", 25*time.Millisecond)
	m.RecordLogFailure(context.Background())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "chat_replies_total")
	assert.Contains(t, body, `source="hosted"`)
	assert.Contains(t, body, "chat_log_failures_total")
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordReply(context.Background(), "local", "cli", time.Millisecond)
	m.RecordLogFailure(context.Background())
}

func TestSetupTracing(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := SetupTracing("etegie-test", &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "unit")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "unit")
}
