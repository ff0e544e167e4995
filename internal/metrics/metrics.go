package metrics

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal    *prometheus.CounterVec
	aiRequestsTotal     *prometheus.CounterVec
	aiRequestDuration   *prometheus.HistogramVec
	emailsTotal         *prometheus.CounterVec
	rateLimitRejections *prometheus.CounterVec

	generations atomic.Int64
}

// New creates a collector with process and Go runtime collectors registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generations_total",
				Help: "Recipes successfully generated by the AI provider",
			},
			[]string{"route"},
		),
		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Calls to the AI provider by outcome",
			},
			[]string{"provider", "status"},
		),
		aiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "AI provider call latency in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"provider"},
		),
		emailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emails_sent_total",
				Help: "Transactional emails by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		rateLimitRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_rejections_total",
				Help: "Requests rejected by a rate limit policy",
			},
			[]string{"policy"},
		),
	}
}

// HTTPMiddleware records request counts and latency per route.
func (m *Collector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecipeGenerated counts a successful generation on the given route.
func (m *Collector) RecipeGenerated(route string) {
	m.generationsTotal.WithLabelValues(route).Inc()
	m.generations.Add(1)
}

// Generations returns the number of successful generations since start.
func (m *Collector) Generations() int64 {
	return m.generations.Load()
}

func (m *Collector) AIRequest(provider, status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(provider, status).Inc()
	m.aiRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Collector) EmailSent(kind string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.emailsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Collector) RateLimited(policy string) {
	m.rateLimitRejections.WithLabelValues(policy).Inc()
}

// GenerationsCounter exposes the vector for tests.
func (m *Collector) GenerationsCounter() *prometheus.CounterVec {
	return m.generationsTotal
}

// RateLimitCounter exposes the rejection vector for tests.
func (m *Collector) RateLimitCounter() *prometheus.CounterVec {
	return m.rateLimitRejections
}
