package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estudio/internal/llm"
)

func TestCounters(t *testing.T) {
	m := New()
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskBriefing, Success: true, LatencyMs: 1200})
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskBriefing, ErrorCode: "TIMEOUT"})
	m.RecordFallback("analyze_briefing", "timeout")
	m.RecordTransition("auth", "calendar")
	m.RecordTransition("auth", "calendar")
	m.ObserveHTTP(http.MethodPost, "/api/generateSubTopics", 200, 30*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("briefing", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("briefing", "TIMEOUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("analyze_briefing", "timeout")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("auth", "calendar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/generateSubTopics", "200")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordFallback("subtopics", "unavailable")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `estudio_fallbacks_total{operation="subtopics",reason="unavailable"} 1`)
}
