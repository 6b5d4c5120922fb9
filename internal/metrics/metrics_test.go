package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveMutation("create", true)
	m.ObserveMutation("create", false)
	m.ObserveMutation("create", true)
	m.ObserveWrite(nil)
	m.ObserveWrite(errors.New("disk full"))
	m.ObserveLoad("seed")
	m.SetTaskCount(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("create", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("seed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.tasks))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMutation("delete", true)
		m.ObserveWrite(nil)
		m.ObserveLoad("storage")
		m.SetTaskCount(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveWrite(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `mytodos_persist_writes_total{result="ok"} 1`))
}
