package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ordersPlaced      *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	cartOperations    *prometheus.CounterVec
	suggestions       *prometheus.CounterVec
	activeDeliveries  prometheus.Gauge
	httpDuration      *prometheus.HistogramVec
	suggestDuration   prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ordersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "junkeats_orders_placed_total",
				Help: "Orders placed at checkout",
			},
			[]string{"order_type", "payment_method"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "junkeats_order_status_transitions_total",
				Help: "Persisted order status changes",
			},
			[]string{"order_type", "status"},
		),
		cartOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "junkeats_cart_operations_total",
				Help: "Cart mutations by operation",
			},
			[]string{"operation"},
		),
		suggestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "junkeats_combo_suggestions_total",
				Help: "AI combo suggestion requests by outcome",
			},
			[]string{"outcome"},
		),
		activeDeliveries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "junkeats_active_deliveries",
			Help: "Delivery orders not yet delivered",
		}),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "junkeats_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		suggestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "junkeats_combo_suggestion_duration_seconds",
			Help:    "Time spent waiting on the language model",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}

	registry.MustRegister(
		m.ordersPlaced,
		m.statusTransitions,
		m.cartOperations,
		m.suggestions,
		m.activeDeliveries,
		m.httpDuration,
		m.suggestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OrderPlaced(orderType, paymentMethod string) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(orderType, paymentMethod).Inc()
}

func (m *Metrics) StatusChanged(orderType, status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(orderType, status).Inc()
}

func (m *Metrics) CartOperation(op string) {
	if m == nil {
		return
	}
	m.cartOperations.WithLabelValues(op).Inc()
}

func (m *Metrics) Suggestion(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(outcome).Inc()
	m.suggestDuration.Observe(took.Seconds())
}

func (m *Metrics) SetActiveDeliveries(n int) {
	if m == nil {
		return
	}
	m.activeDeliveries.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(took.Seconds())
}
