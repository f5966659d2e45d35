package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	rollbacks       *prometheus.CounterVec
	mountedViews    prometheus.Gauge
	settingsWrites  *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	remoteCallCount      uint64
	remoteFailureCount   uint64
	rollbackCount        uint64
	viewCount            int64
}

// NewMetricsService registers core Prometheus collectors.
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

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remote_call_duration_seconds",
		Help:    "Duration of calls to the fee service",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimistic_rollbacks_total",
		Help: "Optimistic updates reverted after a failed write",
	}, []string{"view"})

	mountedViews := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mounted_views",
		Help: "Number of currently mounted views",
	})

	settingsWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settings_writes_total",
		Help: "Writes to the settings store",
	}, []string{"key", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remoteDuration, rollbacks, mountedViews, settingsWrites, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		remoteDuration:  remoteDuration,
		rollbacks:       rollbacks,
		mountedViews:    mountedViews,
		settingsWrites:  settingsWrites,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveRemoteCall records the timing of a fee service call.
func (m *MetricsService) ObserveRemoteCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
	atomic.AddUint64(&m.remoteCallCount, 1)
	if outcome != "success" {
		atomic.AddUint64(&m.remoteFailureCount, 1)
	}
}

// RecordRollback counts a reverted optimistic update.
func (m *MetricsService) RecordRollback(view string) {
	if m == nil {
		return
	}
	m.rollbacks.WithLabelValues(view).Inc()
	atomic.AddUint64(&m.rollbackCount, 1)
}

// SetMountedViews tracks the live view count.
func (m *MetricsService) SetMountedViews(n int) {
	if m == nil {
		return
	}
	m.mountedViews.Set(float64(n))
	atomic.StoreInt64(&m.viewCount, int64(n))
}

// RecordSettingsWrite counts a settings store write.
func (m *MetricsService) RecordSettingsWrite(key string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.settingsWrites.WithLabelValues(key, outcome).Inc()
}

// Snapshot returns aggregated metrics suitable for the health endpoint.
func (m *MetricsService) Snapshot() models.ConsoleMetrics {
	if m == nil {
		return models.ConsoleMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.ConsoleMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		RemoteCalls:              atomic.LoadUint64(&m.remoteCallCount),
		RemoteFailures:           atomic.LoadUint64(&m.remoteFailureCount),
		OptimisticRollbacks:      atomic.LoadUint64(&m.rollbackCount),
		MountedViews:             int(atomic.LoadInt64(&m.viewCount)),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
