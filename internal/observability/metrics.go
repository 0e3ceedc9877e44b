package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Poll outcomes.
const (
	PollSale  = "sale"
	PollEmpty = "empty"
	PollError = "error"
)

// Metrics collects the Prometheus metrics of the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pollsTotal      *prometheus.CounterVec
	salesFetched    prometheus.Counter
	commission      prometheus.Counter
	notifications   prometheus.Counter
}

// NewMetrics initialises a private registry with every metric.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "afili_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "afili_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "afili_sales_polls_total",
		Help: "Polls for new sales by outcome.",
	}, []string{"outcome"})
	fetched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "afili_sales_fetched_total",
		Help: "Sales loaded by bulk fetches.",
	})
	commission := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "afili_commission_received_total",
		Help: "Commission of live sales, in currency units.",
	})
	notifications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "afili_notifications_total",
		Help: "New-sale notifications raised.",
	})
	registry.MustRegister(requests, duration, polls, fetched, commission, notifications)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		pollsTotal:      polls,
		salesFetched:    fetched,
		commission:      commission,
		notifications:   notifications,
	}
}

// Handler returns the /metrics handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records count and latency of every request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObservePoll counts one poll with the given outcome.
func (m *Metrics) ObservePoll(outcome string) {
	if m == nil {
		return
	}
	m.pollsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch counts the sales of a bulk fetch.
func (m *Metrics) ObserveFetch(n int) {
	if m == nil {
		return
	}
	m.salesFetched.Add(float64(n))
}

// ObserveSale records a live sale and the notification raised for it.
func (m *Metrics) ObserveSale(commission float64) {
	if m == nil {
		return
	}
	m.commission.Add(commission)
	m.notifications.Inc()
}
