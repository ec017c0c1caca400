package runner

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zeusync/zeusbt/internal/core/bt"
)

// Metrics holds the runner's collectors on a private registry so several runners
// (and tests) never collide on the global one.
type Metrics struct {
	registry     *prometheus.Registry
	ticks        *prometheus.CounterVec
	tickDuration prometheus.Histogram
	panics       prometheus.Counter
	sensorErrors prometheus.Counter
	agents       prometheus.Gauge
}

// NewMetrics creates and registers the runner collectors plus the Go runtime collector.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "ticks_total",
			Help:      "Agent tree ticks by resulting status.",
		}, []string{"status"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of a single agent tree tick.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "panics_total",
			Help:      "Agent ticks aborted by a panicking leaf callback.",
		}),
		sensorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "sensor_errors_total",
			Help:      "Agent ticks skipped because a sensor failed.",
		}),
		agents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "agents",
			Help:      "Agents currently owned by the runner.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.ticks, m.tickDuration, m.panics, m.sensorErrors, m.agents,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) observeTick(st bt.Status, took time.Duration) {
	m.ticks.WithLabelValues(st.String()).Inc()
	m.tickDuration.Observe(took.Seconds())
}
