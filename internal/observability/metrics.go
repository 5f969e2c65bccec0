// Package observability expõe as métricas Prometheus do serviço.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de uma chamada ao modelo.
const (
	OutcomeOK         = "ok"
	OutcomeOverloaded = "overloaded"
	OutcomeEmpty      = "empty"
	OutcomeError      = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	upstreamCalls *prometheus.CounterVec
	upstreamTime  prometheus.Histogram
}

// NewMetrics cria as métricas num registry próprio (não usa o global).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "study_http_requests_total",
			Help: "Requisições HTTP atendidas, por método, rota e status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "study_http_request_duration_seconds",
			Help:    "Latência das requisições HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "study_upstream_calls_total",
			Help: "Chamadas ao modelo, por resultado.",
		}, []string{"outcome"}),
		upstreamTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "study_upstream_call_duration_seconds",
			Help:    "Latência das chamadas ao modelo.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.upstreamCalls,
		m.upstreamTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registerer é usado por quem precisa registrar métricas próprias
// (ex.: decisões do rate limiter).
func (m *Metrics) Registerer() prometheus.Registerer { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveUpstream(outcome string, d time.Duration) {
	m.upstreamCalls.WithLabelValues(outcome).Inc()
	m.upstreamTime.Observe(d.Seconds())
}

// TrackInFlight publica um gauge lido sob demanda (ex.: vagas ocupadas do pool).
func (m *Metrics) TrackInFlight(read func() int) error {
	return m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "study_inflight_requests",
		Help: "Requisições /study em processamento.",
	}, func() float64 { return float64(read()) }))
}
