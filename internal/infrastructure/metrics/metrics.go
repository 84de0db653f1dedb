// Package metrics expone contadores Prometheus del API: peticiones HTTP, decisiones de
// autorización, movimientos del ledger y rechazos por rate limit.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics colectores del API.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	decisions      *prometheus.CounterVec
	appends        *prometheus.CounterVec
	coinsGranted   prometheus.Counter
	coinsDeducted  prometheus.Counter
	rateLimitHits  *prometheus.CounterVec
}

// New crea y registra los colectores en un registro propio de la instancia.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coins",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	m.requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coins",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	m.decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coins",
		Subsystem: "guard",
		Name:      "decisions_total",
		Help:      "Authorization decisions by operation and final state",
	}, []string{"operation", "state"})

	m.appends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coins",
		Subsystem: "ledger",
		Name:      "transactions_total",
		Help:      "Ledger transactions appended by kind",
	}, []string{"kind"})

	m.coinsGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coins",
		Subsystem: "ledger",
		Name:      "coins_granted_total",
		Help:      "Sum of positive transaction amounts",
	})

	m.coinsDeducted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coins",
		Subsystem: "ledger",
		Name:      "coins_deducted_total",
		Help:      "Sum of absolute negative transaction amounts",
	})

	m.rateLimitHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coins",
		Subsystem: "api",
		Name:      "rate_limit_hits_total",
		Help:      "Number of rate-limited responses",
	}, []string{"route"})

	all := []prometheus.Collector{
		m.requestTotal, m.requestLatency, m.decisions, m.appends,
		m.coinsGranted, m.coinsDeducted, m.rateLimitHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range all {
		if err := m.registry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Registry registro con todos los colectores.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest registra una petición HTTP atendida.
func (m *Metrics) RecordRequest(method, route string, status int, d time.Duration) {
	labels := prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(d.Seconds())
}

// RecordDecision implementa guard.DecisionRecorder.
func (m *Metrics) RecordDecision(op, state string) {
	m.decisions.WithLabelValues(op, state).Inc()
}

// RecordAppend implementa ledger.AppendRecorder.
func (m *Metrics) RecordAppend(amount int64) {
	switch {
	case amount > 0:
		m.appends.WithLabelValues("grant").Inc()
		m.coinsGranted.Add(float64(amount))
	case amount < 0:
		m.appends.WithLabelValues("deduct").Inc()
		m.coinsDeducted.Add(float64(-amount))
	default:
		m.appends.WithLabelValues("zero").Inc()
	}
}

// RecordRateLimitHit registra una petición rechazada por el limitador.
func (m *Metrics) RecordRateLimitHit(route string) {
	m.rateLimitHits.WithLabelValues(route).Inc()
}
