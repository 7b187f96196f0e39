package middleware

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-route request counts and latencies.
type Metrics struct {
    requests *prometheus.CounterVec
    duration *prometheus.HistogramVec
}

// NewMetrics registers the request metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
    f := promauto.With(reg)
    return &Metrics{
        requests: f.NewCounterVec(
            prometheus.CounterOpts{
                Name: "http_requests_total",
                Help: "Total HTTP requests by route and status",
            },
            []string{"method", "route", "status"},
        ),
        duration: f.NewHistogramVec(
            prometheus.HistogramOpts{
                Name:    "http_request_duration_seconds",
                Help:    "HTTP request latency",
                Buckets: prometheus.DefBuckets,
            },
            []string{"method", "route"},
        ),
    }
}

// Middleware observes every request.  The route label is the registered
// path pattern so ids do not explode the label set.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)

            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            status := c.Response().Status
            if err != nil {
                status = http.StatusInternalServerError
                var he *echo.HTTPError
                if errors.As(err, &he) {
                    status = he.Code
                }
            }
            method := c.Request().Method
            m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
            m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
            return err
        }
    }
}
