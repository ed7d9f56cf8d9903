package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSchedule(t *testing.T) {
	m := New()
	horizon := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)

	m.RecordSchedule(ScheduleRun{
		Committed: true,
		Duration:  20 * time.Millisecond,
		Tasks:     5,
		Setups:    2,
		Skipped:   map[string]int{"missing_start": 1, "invalid_rate": 2},
		Horizon:   &horizon,
	})
	m.RecordSchedule(ScheduleRun{Tasks: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRuns.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRuns.WithLabelValues("false")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Blocks.WithLabelValues("task")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Blocks.WithLabelValues("setup")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SkippedRequests.WithLabelValues("invalid_rate")))
	assert.Equal(t, float64(horizon.Unix()), testutil.ToFloat64(m.LastHorizon))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScheduleDuration), "one histogram series")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSchedule(ScheduleRun{Tasks: 3})
		m.RecordHTTPRequest("GET", "/healthz", 200, time.Millisecond)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/api/shifts", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `shopfloor_http_requests_total{method="GET",path="/api/shifts",status="200"} 1`)
	assert.Contains(t, body, "shopfloor_http_request_duration_seconds")
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	a, b := New(), New()
	a.RecordSchedule(ScheduleRun{Tasks: 4})
	assert.Equal(t, 4.0, testutil.ToFloat64(a.Blocks.WithLabelValues("task")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Blocks.WithLabelValues("task")))
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.RecordSchedule(ScheduleRun{Tasks: 2, Committed: true})
	require.NoError(t, m.Push(context.Background(), srv.URL, "shopfloor"))

	assert.Equal(t, "/metrics/job/shopfloor", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPush_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New().Push(context.Background(), srv.URL, "shopfloor")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "pushing metrics"))
}
