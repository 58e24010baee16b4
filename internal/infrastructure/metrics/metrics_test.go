package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveHTTP("GET", "/api/products", 200, 12*time.Millisecond)
	m.TaskFailed("order.notify-user")
	m.JobRun("otp-purge", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `storefront_http_requests_total{method="GET",route="/api/products",status="200"} 1`)
	assert.Contains(t, string(body), `storefront_tasks_failures_total{task="order.notify-user"} 1`)
	assert.Contains(t, string(body), `storefront_scheduler_job_runs_total{job="otp-purge",success="true"} 1`)
}
