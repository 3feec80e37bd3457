package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthbridge",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests processed, by method, path and status.",
	}, []string{"method", "path", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "healthbridge",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency distribution.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	intakesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthbridge",
		Subsystem: "medication",
		Name:      "intakes_total",
		Help:      "Total number of medication intake events recorded, by outcome.",
	}, []string{"outcome"})

	observationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthbridge",
		Subsystem: "health",
		Name:      "observations_total",
		Help:      "Total number of health data entries recorded.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, intakesTotal, observationsTotal)
}

// RecordIntake increments the intake counter for the given outcome
// (taken, skipped, missed).
func RecordIntake(outcome string) {
	intakesTotal.WithLabelValues(outcome).Inc()
}

// RecordObservation increments the health data entry counter.
func RecordObservation() {
	observationsTotal.Inc()
}

// Middleware returns echo middleware that records request counts and latency.
// The route pattern (c.Path()) is used as the path label to keep cardinality
// bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			requestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
