package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	redirectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_redirects_total",
			Help: "Redirects issued by the portal gate, by reason and target portal.",
		},
		[]string{"reason", "target"},
	)

	pdfCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pdf_cache_hits_total",
		Help: "PDF handoff cache retrievals that found a live entry.",
	})

	pdfCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pdf_cache_misses_total",
		Help: "PDF handoff cache retrievals for unknown or expired identifiers.",
	})

	pdfCacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pdf_cache_evictions_total",
		Help: "Expired PDF handoff entries removed by sweeps.",
	})

	proxyUpstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_upstream_failures_total",
			Help: "Failed outbound fetches behind the proxy endpoints.",
		},
		[]string{"kind"},
	)
)

var initOnce sync.Once

// Init registers all metrics with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			redirectsTotal,
			pdfCacheHits,
			pdfCacheMisses,
			pdfCacheEvictions,
			proxyUpstreamFailures,
		)
	})
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument measures request counts and latencies for every route.
func Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			httpRequestsTotal.WithLabelValues(labels...).Inc()
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func RecordRedirect(reason, target string) {
	redirectsTotal.WithLabelValues(reason, target).Inc()
}

func RecordCacheHit()  { pdfCacheHits.Inc() }
func RecordCacheMiss() { pdfCacheMisses.Inc() }

func RecordCacheEvictions(n int) {
	if n > 0 {
		pdfCacheEvictions.Add(float64(n))
	}
}

func RecordUpstreamFailure(kind string) {
	proxyUpstreamFailures.WithLabelValues(kind).Inc()
}
