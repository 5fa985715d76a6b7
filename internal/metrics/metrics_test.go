package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordCacheHit()
	assert.Equal(t, float64(1), testutil.ToFloat64(a.CacheHitsTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.CacheHitsTotal))
}

func TestRecordSearch(t *testing.T) {
	m := New()

	m.RecordSearch("ok", 3, 10*time.Millisecond)
	m.RecordSearch("error", 0, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("error")))
}

func TestHandler_ExposesStorefrontMetrics(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/api/search", "200", 5*time.Millisecond)
	m.RecordContactSubmission("nl", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `storefront_http_requests_total{method="GET",route="/api/search",status="200"} 1`)
	assert.Contains(t, string(body), `storefront_contact_submissions_total{locale="nl",status="ok"} 1`)
}
