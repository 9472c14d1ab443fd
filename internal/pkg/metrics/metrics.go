package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Location tracking
	FixesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "location",
		Name:      "fixes_accepted_total",
		Help:      "Position fixes that passed the accuracy gate",
	})

	FixesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "location",
		Name:      "fixes_rejected_total",
		Help:      "Position fixes dropped by the accuracy gate",
	})

	AcquisitionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "location",
		Name:      "acquisition_failures_total",
		Help:      "Location acquisition failures reported by the position source",
	})

	// Camera and selection
	CameraTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "camera",
		Name:      "transitions_total",
		Help:      "Camera transitions requested, by reason",
	}, []string{"reason"})

	CameraTransitionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "camera",
		Name:      "transition_errors_total",
		Help:      "Camera transition requests the surface failed to accept",
	})

	Estimates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "selection",
		Name:      "estimates_total",
		Help:      "Distance/ETA queries, by outcome",
	}, []string{"outcome"})

	NavigationHandoffs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "navigation",
		Name:      "handoffs_total",
		Help:      "Navigation hand-offs, by launcher and result",
	}, []string{"launcher", "result"})

	SessionQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campusmap",
		Subsystem: "session",
		Name:      "queue_depth",
		Help:      "Events waiting for the session loop",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
