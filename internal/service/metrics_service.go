package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic,
// the schedule view cache and booking/schedule mutations.
type MetricsService struct {
	registry              *prometheus.Registry
	handler               http.Handler
	requestDuration       *prometheus.HistogramVec
	requestTotal          *prometheus.CounterVec
	cacheLatency          prometheus.Observer
	cacheHits             prometheus.Counter
	cacheMisses           prometheus.Counter
	appointmentTransition *prometheus.CounterVec
	scheduleMutations     *prometheus.CounterVec
	loyaltyRedeemed       prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_view_cache_latency_seconds",
		Help:    "Latency for schedule view cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_view_cache_hits_total",
		Help: "Total schedule view cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_view_cache_misses_total",
		Help: "Total schedule view cache misses",
	})

	appointmentTransition := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointment_status_transitions_total",
		Help: "Appointment status changes by source and target status",
	}, []string{"from", "to"})

	scheduleMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_mutations_total",
		Help: "Derived schedule mutations by kind, operation and outcome",
	}, []string{"kind", "operation", "outcome"})

	loyaltyRedeemed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_redeemed_total",
		Help: "Loyalty points redeemed as booking discounts",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses, appointmentTransition, scheduleMutations, loyaltyRedeemed, goroutines)

	return &MetricsService{
		registry:              registry,
		handler:               promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:       requestDuration,
		requestTotal:          requestTotal,
		cacheLatency:          cacheLatency,
		cacheHits:             cacheHits,
		cacheMisses:           cacheMisses,
		appointmentTransition: appointmentTransition,
		scheduleMutations:     scheduleMutations,
		loyaltyRedeemed:       loyaltyRedeemed,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// RecordAppointmentTransition counts an applied appointment status change.
// from is empty for newly booked appointments.
func (m *MetricsService) RecordAppointmentTransition(from, to string) {
	if m == nil {
		return
	}
	if from == "" {
		from = "none"
	}
	m.appointmentTransition.WithLabelValues(from, to).Inc()
}

// RecordScheduleMutation counts a schedule operation and whether it succeeded.
func (m *MetricsService) RecordScheduleMutation(kind, operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.scheduleMutations.WithLabelValues(kind, operation, outcome).Inc()
}

// RecordLoyaltyRedeemed counts redeemed points.
func (m *MetricsService) RecordLoyaltyRedeemed(points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.loyaltyRedeemed.Add(float64(points))
}
