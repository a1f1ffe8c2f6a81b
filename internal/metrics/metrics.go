package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so constructing it twice (tests) never panics.
type Metrics struct {
	Registry *prometheus.Registry

	turns            *prometheus.CounterVec
	intents          *prometheus.CounterVec
	externalCalls    *prometheus.CounterVec
	externalDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "care_turns_total",
				Help: "Conversation turns handled, by channel and response path.",
			},
			[]string{"channel", "path"},
		),
		intents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "care_intents_total",
				Help: "Intent signals detected in incoming messages.",
			},
			[]string{"intent"},
		),
		externalCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_calls_total",
				Help: "Calls to external services by outcome.",
			},
			[]string{"service", "outcome"},
		),
		externalDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_call_duration_seconds",
				Help:    "Latency of external service calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// The methods below accept a nil receiver so optional wiring stays simple.

func (m *Metrics) IncTurn(channel, path string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(channel, path).Inc()
}

func (m *Metrics) IncIntent(name string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(name).Inc()
}

// ObserveExternal records one external call; err == nil counts as success.
func (m *Metrics) ObserveExternal(service string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.externalCalls.WithLabelValues(service, outcome).Inc()
	m.externalDuration.WithLabelValues(service).Observe(d.Seconds())
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
