package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	wsConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total number of WebSocket connections accepted",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	onlineUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamcollab_online_users",
			Help: "Number of users currently in the presence registry",
		},
	)

	messagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamcollab_messages_sent_total",
			Help: "Total number of chat messages stored",
		},
	)

	tasksAssignedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teamcollab_tasks_assigned_total",
			Help: "Total number of tasks assigned",
		},
	)

	taskUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamcollab_task_updates_total",
			Help: "Total number of task status updates",
		},
		[]string{"status"},
	)
)

// Metrics returns a Gin middleware that collects Prometheus metrics.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpRequestsInFlight.Inc()

		c.Next()

		httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// MetricsHandler exposes the Prometheus scrape endpoint through Gin.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordWebSocketConnection increments the WebSocket connection counters.
func RecordWebSocketConnection() {
	wsConnectionsTotal.Inc()
	wsActiveConnections.Inc()
}

// RecordWebSocketDisconnection decrements the active connection gauge.
func RecordWebSocketDisconnection() {
	wsActiveConnections.Dec()
}

// SetOnlineUsers sets the presence registry size gauge.
func SetOnlineUsers(count float64) {
	onlineUsers.Set(count)
}

// RecordMessageSent increments the chat message counter.
func RecordMessageSent() {
	messagesSentTotal.Inc()
}

// RecordTaskAssigned increments the task assignment counter.
func RecordTaskAssigned() {
	tasksAssignedTotal.Inc()
}

// RecordTaskUpdate counts a status change into the given column.
func RecordTaskUpdate(status string) {
	taskUpdatesTotal.WithLabelValues(status).Inc()
}
