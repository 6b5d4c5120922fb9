// Package metrics exposes prometheus counters for task mutations and persistence.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one store. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	writes    *prometheus.CounterVec
	loads     *prometheus.CounterVec
	tasks     prometheus.Gauge
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mytodos",
			Name:      "mutations_total",
			Help:      "Task mutation commands by operation and outcome.",
		}, []string{"op", "outcome"}),
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mytodos",
			Name:      "persist_writes_total",
			Help:      "Task list writes to the persistence backend by result.",
		}, []string{"result"}),
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mytodos",
			Name:      "startup_loads_total",
			Help:      "Startup loads by source of the initial task list.",
		}, []string{"source"}),
		tasks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "mytodos",
			Name:      "tasks",
			Help:      "Number of tasks in the current list.",
		}),
	}
}

// ObserveMutation counts a mutation command. applied is false for no-ops.
func (m *Metrics) ObserveMutation(op string, applied bool) {
	if m == nil {
		return
	}
	outcome := "applied"
	if !applied {
		outcome = "ignored"
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// ObserveWrite counts a persistence write.
func (m *Metrics) ObserveWrite(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.WithLabelValues(result).Inc()
}

// ObserveLoad counts a startup load. source is "storage" or "seed".
func (m *Metrics) ObserveLoad(source string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(source).Inc()
}

// SetTaskCount records the size of the current list.
func (m *Metrics) SetTaskCount(n int) {
	if m == nil {
		return
	}
	m.tasks.Set(float64(n))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
