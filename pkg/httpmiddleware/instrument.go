package httpmiddleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RouteFinder resolves a request to its route pattern, e.g.
// "GET /api/product/{id}". Patterns keep metric cardinality bounded: every
// product page collapses into one series instead of one per id.
type RouteFinder func(r *http.Request) (string, bool)

// MakeRouteFinder builds a RouteFinder from a ServeMux.
func MakeRouteFinder(mux *http.ServeMux) RouteFinder {
	return func(r *http.Request) (string, bool) {
		_, pattern := mux.Handler(r)
		return pattern, pattern != ""
	}
}

// MeterProvider is the subset of telemetry needed by Instrument.
type MeterProvider interface {
	MeterProvider() metric.MeterProvider
}

// Instrument records request count and latency per route using OpenTelemetry
// metrics.
func Instrument(serviceName string, find RouteFinder, tp MeterProvider) Middleware {
	meter := tp.MeterProvider().Meter(serviceName)

	requests, _ := meter.Int64Counter("http.server.request_count",
		metric.WithDescription("Number of HTTP requests received"),
	)
	duration, _ := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route, ok := find(r)
			if !ok {
				route = "unmatched"
			}
			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", sw.status),
			)
			requests.Add(r.Context(), 1, attrs)
			duration.Record(r.Context(), float64(time.Since(start))/float64(time.Millisecond), attrs)
		})
	}
}
