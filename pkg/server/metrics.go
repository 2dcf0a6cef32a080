package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "wordgraph"

// Metrics holds the front end collectors on a private registry, so several
// servers can live in one process. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// requests counts handled requests.
	// Labels: transport (http, ipc), action, code
	requests *prometheus.CounterVec

	// latency measures request handling time in seconds.
	// Labels: transport, action
	latency *prometheus.HistogramVec

	tokens prometheus.Counter
}

// NewMetrics registers the request collectors and gauges reading eng.
func NewMetrics(eng engine.TextEngine) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Requests handled by transport, action and status code",
		}, []string{"transport", "action", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Request handling latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"transport", "action"}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ingested_tokens_total",
			Help:      "Tokens learned through the front ends",
		}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.tokens)

	if eng != nil {
		gauge := func(name, help string, read func(engine.Stats) int) prometheus.Collector {
			return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "engine",
				Name:      name,
				Help:      help,
			}, func() float64 { return float64(read(eng.Stats())) })
		}
		m.registry.MustRegister(
			gauge("sentences", "Sentences ingested", func(s engine.Stats) int { return s.Sentences }),
			gauge("distinct_words", "Distinct words seen", func(s engine.Stats) int { return s.DistinctWords }),
			gauge("edges", "Co-occurrence edges", func(s engine.Stats) int { return s.Edges }),
		)
	}
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(transport, action string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(transport, action, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(transport, action).Observe(elapsed.Seconds())
}

func (m *Metrics) ingested(tokens int) {
	if m == nil || tokens <= 0 {
		return
	}
	m.tokens.Add(float64(tokens))
}
