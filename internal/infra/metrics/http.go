package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(httpRequestDuration) }

var httpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds by route and status code.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	},
	[]string{"route", "code"},
)

func ObserveHTTPRequest(route string, code int, durationMs float64) {
	httpRequestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(durationMs)
}
