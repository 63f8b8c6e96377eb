package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/weather-search/internal/weather"
)

// Metrics records controller lifecycle events as Prometheus series.
type Metrics struct {
	submitted  prometheus.Counter
	settled    *prometheus.CounterVec
	superseded prometheus.Counter
	duration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_search_submitted_total",
			Help: "Weather lookups submitted.",
		}),
		settled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_search_settled_total",
				Help: "Weather lookups settled, by outcome and failure kind.",
			},
			[]string{"status", "kind"},
		),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weather_search_superseded_total",
			Help: "Weather lookups whose outcome was dropped because a newer one was submitted.",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_search_fetch_seconds",
				Help:    "Provider fetch latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.submitted, m.settled, m.superseded, m.duration)
	return m
}

func (m *Metrics) Submitted() { m.submitted.Inc() }

func (m *Metrics) Settled(status weather.Status, kind weather.FailureKind, elapsed time.Duration) {
	k := "none"
	if kind != 0 {
		k = kind.String()
	}
	m.settled.WithLabelValues(status.String(), k).Inc()
	m.duration.WithLabelValues(status.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) Superseded() { m.superseded.Inc() }
