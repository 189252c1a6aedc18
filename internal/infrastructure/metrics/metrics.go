package metrics

import (
	"net/http"
	"strconv"
	"time"

	"storefront-api/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Collector owns the Prometheus registry and every application metric.
type Collector struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	syncRuns      *prometheus.CounterVec
	syncRecords   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	payments      *prometheus.CounterVec
	webhooks      *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_sync_runs_total",
			Help:      "Catalog sync runs by kind and result.",
		}, []string{"kind", "result"}),
		syncRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_sync_records_total",
			Help:      "Records touched by catalog sync.",
		}, []string{"kind", "op"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Email notifications by kind, provider and result.",
		}, []string{"kind", "provider", "result"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Checkout payment verifications by result.",
		}, []string{"result"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Inbound webhooks by source, topic and result.",
		}, []string{"source", "topic", "result"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests, c.httpDuration,
		c.syncRuns, c.syncRecords,
		c.notifications, c.payments, c.webhooks,
	)
	return c
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per chi route pattern
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (c *Collector) SyncRun(kind, result string, upserted, deleted, failed int) {
	c.syncRuns.WithLabelValues(kind, result).Inc()
	c.syncRecords.WithLabelValues(kind, "upserted").Add(float64(upserted))
	c.syncRecords.WithLabelValues(kind, "deleted").Add(float64(deleted))
	c.syncRecords.WithLabelValues(kind, "failed").Add(float64(failed))
}

func (c *Collector) Notification(kind, provider string, ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	if provider == "" {
		provider = "none"
	}
	c.notifications.WithLabelValues(kind, provider, result).Inc()
}

func (c *Collector) Payment(result string) {
	c.payments.WithLabelValues(result).Inc()
}

func (c *Collector) Webhook(source, topic, result string) {
	c.webhooks.WithLabelValues(source, topic, result).Inc()
}

var _ ports.Metrics = (*Collector)(nil)
