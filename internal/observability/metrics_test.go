package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RowProcessed()
	m.RowProcessed()
	m.RecordCreated(true)
	m.RecordCreated(false)
	m.ImageFetched("failed", "bad_status")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imageFetches.WithLabelValues("failed", "bad_status")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RowProcessed()
		m.RecordCreated(true)
		m.ImageFetched("succeeded", "")
		m.RunFinished(time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RowProcessed()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), "catalog_import_rows_total 1")
}
