// Package metrics exposes Prometheus collectors for the HTTP layer and the
// response engine
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "forms_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forms_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	ResponsesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forms_responses_submitted_total",
		Help: "Total number of form responses stored",
	})
	SessionsPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forms_sessions_pruned_total",
		Help: "Total number of stale sessions removed by the cleanup loop",
	})
)

func init() {
	prometheus.MustRegister(HttpRequestsTotal, HttpRequestDuration, ResponsesSubmitted, SessionsPruned)
}

// GinMiddleware records request counts and latencies per route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
