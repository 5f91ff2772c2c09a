package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/branches", http.StatusOK, 12*time.Millisecond)
	metrics.ObserveDBQuery("list_branches", 3*time.Millisecond)
	metrics.RecordUpload(true)
	metrics.RecordUpload(false)
	metrics.RecordExport("csv")

	assert.Equal(t, float64(1), counterValue(t, metrics, "lms_lesson_uploads_total", "stored"))
	assert.Equal(t, float64(1), counterValue(t, metrics, "lms_lesson_uploads_total", "failed"))
	assert.Equal(t, float64(1), counterValue(t, metrics, "lms_exports_total", "csv"))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lms_http_requests_total{method="GET",route="/api/v1/branches",status="200"} 1`)
	assert.Contains(t, body, `lms_db_query_duration_seconds_count{query="list_branches"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordUpload(true)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
