package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveMessage("appeals:case-has", "acked", 20*time.Millisecond)
	m.ObserveMessage("appeals:case-has", "acked", 30*time.Millisecond)
	m.ObserveMessage("appeals:case-has", "dead_letter", time.Millisecond)
	m.ObserveSnapshot("succeeded", 12, 2, 3*time.Second)
	m.ObserveAPI("GET", "/api/sync/status", "200", 5*time.Millisecond)

	if got := m.messages.Value("appeals:case-has", "acked"); got != 2 {
		t.Fatalf("acked=%v want 2", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`appealsync_stream_messages_total{stream="appeals:case-has",outcome="acked"} 2`,
		`appealsync_stream_messages_total{stream="appeals:case-has",outcome="dead_letter"} 1`,
		`appealsync_snapshot_cases_total{kind="fetched"} 12`,
		`appealsync_snapshot_duration_seconds_bucket{status="succeeded",le="5"} 1`,
		`appealsync_snapshot_duration_seconds_bucket{status="succeeded",le="1"} 0`,
		`appealsync_api_requests_total{method="GET",route="/api/sync/status",status="200"} 1`,
		"# TYPE appealsync_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveMessage("s", "acked", time.Second)
	m.ObserveSnapshot("failed", 0, 0, time.Second)
	m.ApiInflightInc()
	m.ApiInflightDec()
	if Init(false) != nil {
		t.Fatalf("disabled metrics should be nil")
	}

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labels=%s", got)
	}
}
