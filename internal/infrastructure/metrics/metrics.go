// Package metrics colectores Prometheus del ledger y de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores sobre un registro propio. Un *Metrics nil no registra nada.
type Metrics struct {
	registry        *prometheus.Registry
	movements       *prometheus.CounterVec
	requests        *prometheus.CounterVec
	publishFailures prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// New crea y registra los colectores.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "templo_stock_movements_total",
				Help: "Movimientos de stock confirmados, por tipo",
			},
			[]string{"type"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "templo_stock_requests_total",
				Help: "Transiciones de solicitudes de stock, por estado resultante",
			},
			[]string{"status"},
		),
		publishFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "templo_event_publish_failures_total",
				Help: "Eventos de movimiento que no se pudieron publicar",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "templo_http_requests_total",
				Help: "Peticiones HTTP atendidas",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "templo_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	m.registry.MustRegister(
		m.movements,
		m.requests,
		m.publishFailures,
		m.httpRequests,
		m.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) MovementRecorded(movementType string) {
	if m == nil {
		return
	}
	m.movements.WithLabelValues(movementType).Inc()
}

func (m *Metrics) RequestTransition(status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

// ObserveHTTP registra una petición atendida. route es el patrón, no la ruta concreta.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro subyacente (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
