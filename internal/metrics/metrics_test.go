package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.CacheLookup("query", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheHitsTotal.WithLabelValues("query")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheHitsTotal.WithLabelValues("query")))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.ObserveQuery("search", "miss", 0.002, 4)
	m.CacheLookup("alternatives", false)
	m.CacheCleared()
	m.Indexed(3, 3, map[string]int{"brand": 2})
	m.JobFinished("append_items", "completed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("search", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("alternatives")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheClearsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsIndexedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IndexedItems))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IndexKeys.WithLabelValues("brand")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("append_items", "completed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("search", "tag", 0, 0)
		m.CacheLookup("query", true)
		m.CacheCleared()
		m.Indexed(1, 1, nil)
		m.JobFinished("append_items", "failed")
		m.HTTPRequest("GET", "/search", "200", 0.1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.CacheCleared()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cache_clears_total 1")
}
