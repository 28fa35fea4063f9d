// Package metrics exposes Prometheus metrics for HTTP traffic, checkouts and
// domain event dispatch.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "market"

// Registry owns a private Prometheus registry and every collector of the service
type Registry struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	checkouts       *prometheus.CounterVec
	checkoutUnits   *prometheus.CounterVec
	checkoutLatency *prometheus.HistogramVec
	cartClearFails  prometheus.Counter

	eventDispatches *prometheus.CounterVec
}

// NewRegistry creates the collectors and registers them with Go runtime and
// process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Checkout attempts by entry point and outcome code.",
		}, []string{"shape", "outcome"}),
		checkoutUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "units_sold_total",
			Help:      "Units sold by committed checkouts.",
		}, []string{"shape"}),
		checkoutLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "duration_seconds",
			Help:      "Checkout latency including lock waits.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"shape"}),
		cartClearFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "cart_clear_failures_total",
			Help:      "Committed cart checkouts whose cart rows could not be cleared.",
		}),
		eventDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dispatched_total",
			Help:      "Domain event handler invocations by outcome.",
		}, []string{"event_type", "outcome"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpLatency,
		r.checkouts,
		r.checkoutUnits,
		r.checkoutLatency,
		r.cartClearFails,
		r.eventDispatches,
	)
	return r
}

// RegisterDBStats exports connection pool statistics of db
func (r *Registry) RegisterDBStats(db *sql.DB, name string) error {
	return r.reg.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// GinMiddleware counts requests by route template, so path parameters do not
// explode label cardinality. Unmatched routes are reported as "unmatched".
func (r *Registry) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveCheckout implements checkout.Recorder. An empty code counts as "ok".
func (r *Registry) ObserveCheckout(shape checkout.Shape, code string, units int, elapsed time.Duration) {
	outcome := code
	if outcome == "" {
		outcome = "ok"
		r.checkoutUnits.WithLabelValues(string(shape)).Add(float64(units))
	}
	r.checkouts.WithLabelValues(string(shape), outcome).Inc()
	r.checkoutLatency.WithLabelValues(string(shape)).Observe(elapsed.Seconds())
}

// ObserveCartClearFailure implements checkout.Recorder
func (r *Registry) ObserveCartClearFailure() {
	r.cartClearFails.Inc()
}

// RecordEventDispatch implements event.DispatchRecorder
func (r *Registry) RecordEventDispatch(eventType, outcome string) {
	r.eventDispatches.WithLabelValues(eventType, outcome).Inc()
}

var _ checkout.Recorder = (*Registry)(nil)
