package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nafasi_http_requests_total",
			Help: "Number of HTTP requests processed, by method, path and status code.",
		},
		[]string{"method", "path", "code"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nafasi_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds, by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	assignmentsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nafasi_assignments_committed_total",
			Help: "Number of assignment records committed to the ledger.",
		},
	)
	assignmentDuplicatesFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nafasi_assignment_duplicates_flagged_total",
			Help: "Number of proposed assignments flagged as duplicates of existing records.",
		},
	)
)

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			path := ctx.Path()
			if path == "" {
				path = ctx.Request().URL.Path
			}
			status := ctx.Response().Status
			if err != nil {
				if herr, ok := err.(*echo.HTTPError); ok {
					status = herr.Code
				}
			}
			method := ctx.Request().Method
			requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func metricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
