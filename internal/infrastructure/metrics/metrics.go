package metrics

import (
	"net/http"

	"streamhub-backend/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the workflow collectors and the registry they are exposed from.
// A nil *Metrics records nothing.
type Metrics struct {
	Registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	rateLimited prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "transitions_total",
			Help:      "Successful workflow transitions by entity and target status.",
		}, []string{"entity", "from", "to"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "rejections_total",
			Help:      "Workflow operations refused by the lifecycle rules, by operation and error code.",
		}, []string{"operation", "code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "rate_limited_total",
			Help:      "Write requests refused by the per-caller rate limiter.",
		}),
	}
	reg.MustRegister(
		m.transitions,
		m.rejections,
		m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Transition(entity, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, from, to).Inc()
}

// Rejected counts a refused operation. Infrastructure failures are not counted.
func (m *Metrics) Rejected(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	code := domain.Code(err)
	if code == "internal" {
		return
	}
	m.rejections.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
