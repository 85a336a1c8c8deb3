package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Wiz-2/frontend-login/internal/apiclient"
	"github.com/Wiz-2/frontend-login/internal/models"
)

const namespace = "authui"

// Metrics holds the collectors exported on the metrics endpoint
type Metrics struct {
	registry *prometheus.Registry

	attempts        *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	openViews       prometheus.GaugeFunc
}

// New registers the collectors on a fresh registry.
// openViews is sampled at scrape time; it may be nil.
func New(openViews func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Login and registration submissions by mode, outcome and backend status.",
		}, []string{"mode", "outcome", "status"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Time spent waiting for the authentication API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}

	if openViews != nil {
		m.openViews = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_views",
			Help:      "Credential form views currently held in memory.",
		}, openViews)
	}

	return m
}

// ObserveAttempt records one completed request
func (m *Metrics) ObserveAttempt(mode models.Mode, res apiclient.Result, elapsed time.Duration) {
	status := "none"
	if res.Outcome != apiclient.OutcomeTransportError {
		status = strconv.Itoa(res.StatusCode)
	}

	m.attempts.WithLabelValues(string(mode), res.Outcome.String(), status).Inc()
	m.backendDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
