package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestboxd_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nestboxd_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestboxd_logins_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	imagesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestboxd_images_ingested_total",
		Help: "Count of ingested image upload parts by result",
	}, []string{"result"})

	stagingSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestboxd_staging_sweep_removed_total",
		Help: "Count of stale staging files handled by the sweeper",
	}, []string{"result"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nestboxd_rate_limited_total",
		Help: "Count of requests rejected by the per-mandant rate limiter",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLogin increments the login counter for the given result.
func ObserveLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// ObserveIngest increments the image ingestion counter for the given result.
func ObserveIngest(result string) {
	imagesIngested.WithLabelValues(result).Inc()
}

// ObserveStagingSweep increments the sweep counter for the given result.
func ObserveStagingSweep(result string) {
	stagingSweeps.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts a request rejected by the rate limiter.
func ObserveRateLimited() {
	rateLimited.Inc()
}
